package mbus

// Pin identifies which of the two output lines a PinDriver call addresses.
// The engine never reads pins through PinDriver — inputs arrive only via
// ClockEdge and DataEdge.
type Pin uint8

const (
	PinClockOut Pin = iota
	PinDataOut
)

func (p Pin) String() string {
	switch p {
	case PinClockOut:
		return "clock-out"
	case PinDataOut:
		return "data-out"
	default:
		return "unknown-pin"
	}
}

// PinDriver is the single capability the engine needs from the platform: set
// an output line to a level. Implementations must be callable from
// interrupt context and must not block; the engine calls SetPin multiple
// times per edge. See pkg/gpio for a periph.io-backed implementation.
type PinDriver interface {
	SetPin(pin Pin, level bool)
}

// PinDriverFunc adapts a function to a PinDriver, the way http.HandlerFunc
// adapts a function to an http.Handler. Mainly useful in tests.
type PinDriverFunc func(pin Pin, level bool)

func (f PinDriverFunc) SetPin(pin Pin, level bool) { f(pin, level) }
