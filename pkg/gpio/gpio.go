// Package gpio adapts host GPIO lines, via periph.io, into the
// mbus.PinDriver capability the protocol engine needs: a synchronous way
// to set an output line high or low.
package gpio

import (
	"fmt"
	"log/slog"
	"strings"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/flowlabs/mbus"
	"github.com/flowlabs/mbus/pkg/transport"
)

func init() {
	transport.Register("gpio", NewDriver)
}

// Driver drives a pair of host GPIO lines for clock-out and data-out.
// Clock-in and data-in are not this package's concern: per the engine's
// contract, edge delivery arrives through mbus.Engine.ClockEdge and
// mbus.Engine.DataEdge from whatever interrupt source the platform wires
// up, which periph.io's gpio.PinIn.WaitForEdge is a reasonable choice for
// but is outside PinDriver's scope.
type Driver struct {
	logger *slog.Logger
	clock  gpio.PinOut
	data   gpio.PinOut
}

// NewDriver satisfies transport.NewDriverFunc. channel is two host pin
// names separated by a comma, "<clock-out>,<data-out>", e.g. "GPIO17,GPIO27".
func NewDriver(channel string) (mbus.PinDriver, error) {
	names := strings.Split(channel, ",")
	if len(names) != 2 {
		return nil, fmt.Errorf("gpio: channel must be \"<clock-pin>,<data-pin>\", got %q", channel)
	}
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("gpio: host init: %w", err)
	}
	return Open(names[0], names[1])
}

// Open resolves clockName and dataName against the host's registered pins
// and returns a Driver ready for Engine.Init.
func Open(clockName, dataName string) (*Driver, error) {
	clockPin := gpioreg.ByName(clockName)
	if clockPin == nil {
		return nil, fmt.Errorf("gpio: unknown pin %q", clockName)
	}
	dataPin := gpioreg.ByName(dataName)
	if dataPin == nil {
		return nil, fmt.Errorf("gpio: unknown pin %q", dataName)
	}
	if err := clockPin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("gpio: init clock pin: %w", err)
	}
	if err := dataPin.Out(gpio.High); err != nil {
		return nil, fmt.Errorf("gpio: init data pin: %w", err)
	}
	return &Driver{logger: slog.Default(), clock: clockPin, data: dataPin}, nil
}

// SetPin implements mbus.PinDriver.
func (d *Driver) SetPin(pin mbus.Pin, level bool) {
	out := gpio.Low
	if level {
		out = gpio.High
	}
	var line gpio.PinOut
	switch pin {
	case mbus.PinClockOut:
		line = d.clock
	case mbus.PinDataOut:
		line = d.data
	default:
		d.logger.Error("gpio: unknown pin", "pin", pin)
		return
	}
	if err := line.Out(out); err != nil {
		d.logger.Error("gpio: set pin failed", "pin", pin, "err", err)
	}
}
