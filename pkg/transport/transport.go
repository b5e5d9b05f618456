// Package transport holds a small named-driver registry for mbus.PinDriver
// implementations, so a binary can pick a bus backend by name at startup
// rather than importing a concrete one directly.
package transport

import (
	"fmt"

	"github.com/flowlabs/mbus"
)

// NewDriverFunc constructs a PinDriver bound to channel, whose meaning is
// driver-specific (a comma-separated pin list for pkg/gpio). pkg/sim does
// not register here.
type NewDriverFunc func(channel string) (mbus.PinDriver, error)

var registry = make(map[string]NewDriverFunc)

// Register makes a driver constructor available under name. Called from
// the init() function of a driver package, the way pkg/gpio registers
// itself as a side effect of being blank-imported.
func Register(name string, newDriver NewDriverFunc) {
	registry[name] = newDriver
}

// Implemented lists the driver names currently registered.
func Implemented() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}

// New builds a PinDriver using the constructor registered under name.
func New(name string, channel string) (mbus.PinDriver, error) {
	newDriver, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("transport: unsupported driver %q", name)
	}
	return newDriver(channel)
}
