// Package config loads the file-representable subset of mbus.Config — node
// identity and pin assignment — from an INI file, the way gocanopen loads
// its object dictionary from an EDS file.
package config

import (
	"fmt"
	"strconv"

	"gopkg.in/ini.v1"

	"github.com/flowlabs/mbus"
)

// NodeIdentity is the persisted subset of mbus.Config: everything that
// describes a node's address and wiring rather than its runtime callbacks
// or receive buffers, which a caller must still attach before Init.
type NodeIdentity struct {
	ClockOutPin              uint32
	DataOutPin               uint32
	ShortPrefix              uint8
	FullPrefix               uint32
	BroadcastChannels        uint16
	Promiscuous              bool
	ParticipateInEnumeration bool
}

// Load reads a node identity from an INI file shaped like:
//
//	[node]
//	clock_out_pin = 17
//	data_out_pin = 27
//	short_prefix = 0x3
//	full_prefix = 0x00A1B2
//	broadcast_channels = 0x0020
//	promiscuous = false
//	participate_in_enumeration = true
func Load(path string) (*NodeIdentity, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("config: load %s: %w", path, err)
	}
	section := cfg.Section("node")

	id := &NodeIdentity{}
	if id.ClockOutPin, err = mustUint32(section, "clock_out_pin", 0); err != nil {
		return nil, err
	}
	if id.DataOutPin, err = mustUint32(section, "data_out_pin", 0); err != nil {
		return nil, err
	}
	shortPrefix, err := mustUint32(section, "short_prefix", 0)
	if err != nil {
		return nil, err
	}
	id.ShortPrefix = uint8(shortPrefix)
	if id.FullPrefix, err = mustUint32(section, "full_prefix", 0); err != nil {
		return nil, err
	}
	broadcastChannels, err := mustUint32(section, "broadcast_channels", 0)
	if err != nil {
		return nil, err
	}
	id.BroadcastChannels = uint16(broadcastChannels)
	id.Promiscuous = section.Key("promiscuous").MustBool(false)
	id.ParticipateInEnumeration = section.Key("participate_in_enumeration").MustBool(false)
	return id, nil
}

// Save writes id back out in the format Load expects.
func Save(path string, id *NodeIdentity) error {
	cfg := ini.Empty()
	section, err := cfg.NewSection("node")
	if err != nil {
		return fmt.Errorf("config: create section: %w", err)
	}
	section.Key("clock_out_pin").SetValue(fmt.Sprintf("%d", id.ClockOutPin))
	section.Key("data_out_pin").SetValue(fmt.Sprintf("%d", id.DataOutPin))
	section.Key("short_prefix").SetValue(fmt.Sprintf("0x%X", id.ShortPrefix))
	section.Key("full_prefix").SetValue(fmt.Sprintf("0x%X", id.FullPrefix))
	section.Key("broadcast_channels").SetValue(fmt.Sprintf("0x%X", id.BroadcastChannels))
	section.Key("promiscuous").SetValue(fmt.Sprintf("%t", id.Promiscuous))
	section.Key("participate_in_enumeration").SetValue(fmt.Sprintf("%t", id.ParticipateInEnumeration))
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("config: save %s: %w", path, err)
	}
	return nil
}

// Apply copies id's fields into cfg, leaving RxSlots and the callback
// fields untouched.
func (id *NodeIdentity) Apply(cfg *mbus.Config) {
	cfg.ClockOutPin = id.ClockOutPin
	cfg.DataOutPin = id.DataOutPin
	cfg.ShortPrefix = id.ShortPrefix
	cfg.FullPrefix = id.FullPrefix
	cfg.BroadcastChannels = id.BroadcastChannels
	cfg.Promiscuous = id.Promiscuous
	cfg.ParticipateInEnumeration = id.ParticipateInEnumeration
}

func mustUint32(section *ini.Section, key string, def uint32) (uint32, error) {
	if !section.HasKey(key) {
		return def, nil
	}
	// Parsed with base 0 rather than Key.Uint64 so "0x.." values (the
	// natural way to write addresses and channel masks) work too.
	v, err := strconv.ParseUint(section.Key(key).String(), 0, 32)
	if err != nil {
		return 0, fmt.Errorf("config: key %s: %w", key, err)
	}
	return uint32(v), nil
}
