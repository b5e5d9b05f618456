package mbus

import "fmt"

// ErrorKind classifies how a transaction terminated. NoError never reaches
// a client error callback. ClockSynchError, DataSynchError and RecvOverflow
// are passed to Config.OnError; BusBusy is reported only through
// Config.OnSendDone, synchronously from Send, and a sender whose frame
// overflowed the receiver sees RecvOverflow through Config.OnSendDone.
type ErrorKind uint8

const (
	NoError ErrorKind = iota
	BusBusy
	ClockSynchError
	DataSynchError
	RecvOverflow
	// Interrupted is reserved for an externally requested abort. No code
	// path in this engine produces it yet.
	Interrupted
)

var errorKindNames = map[ErrorKind]string{
	NoError:         "NO_ERROR",
	BusBusy:         "BUS_BUSY",
	ClockSynchError: "CLOCK_SYNCH_ERROR",
	DataSynchError:  "DATA_SYNCH_ERROR",
	RecvOverflow:    "RECV_OVERFLOW",
	Interrupted:     "INTERRUPTED",
}

func (k ErrorKind) String() string {
	if name, ok := errorKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", uint8(k))
}

// Error implements the error interface so an ErrorKind can be passed or
// logged directly wherever a plain error is expected.
func (k ErrorKind) Error() string {
	return k.String()
}

// ErrNotInitialized is returned by Send, ClockEdge, and DataEdge when
// called on an Engine that has not had Init called yet.
var ErrNotInitialized = fmt.Errorf("mbus: engine not initialized")

// ErrBusBusy is returned by Send when the engine is not in StateIdle.
// Config.OnSendDone also still fires synchronously with BusBusy for
// clients that only watch the callback.
var ErrBusBusy = fmt.Errorf("mbus: %s", BusBusy)

// ErrNoCallbacks is returned by Init when cfg has none of OnSendDone,
// OnRecv, or OnError set. Init proceeds and returns the error rather than
// panicking later: a client is better told up front that every completed
// transaction, forwarded or not, will be silently unobservable.
var ErrNoCallbacks = fmt.Errorf("mbus: config has no callbacks set")
