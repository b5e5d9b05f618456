package mbus

// State is the protocol engine's finite state machine position. It is
// advanced by ClockEdge, except for two moves made by DataEdge: the forced
// jump into PreBeginControl when three interrupt-request data transitions
// have been observed, and the move into StateError on a data
// synchronization error.
type State uint8

const (
	StateIdle State = iota
	StatePrearb
	StateArbitration
	StatePrioDrive
	StatePrioLatch
	StateDriveShortAddr
	StateLatchShortAddr
	StateDriveLongAddr
	StateLatchLongAddr
	StateDriveData
	StateLatchData
	StateRequestInterrupt
	StateRequestingInterrupt
	StateRequestedInterrupt
	StatePreBeginControl
	StateBeginControl
	StateDriveCB0
	StateLatchCB0
	StateDriveCB1
	StateLatchCB1
	StateDriveIdle
	StateBeginIdle
	StateError
)

var stateNames = [...]string{
	StateIdle:                "IDLE",
	StatePrearb:              "PREARB",
	StateArbitration:         "ARBITRATION",
	StatePrioDrive:           "PRIO_DRIVE",
	StatePrioLatch:           "PRIO_LATCH",
	StateDriveShortAddr:      "DRIVE_SHORT_ADDR",
	StateLatchShortAddr:      "LATCH_SHORT_ADDR",
	StateDriveLongAddr:       "DRIVE_LONG_ADDR",
	StateLatchLongAddr:       "LATCH_LONG_ADDR",
	StateDriveData:           "DRIVE_DATA",
	StateLatchData:           "LATCH_DATA",
	StateRequestInterrupt:    "REQUEST_INTERRUPT",
	StateRequestingInterrupt: "REQUESTING_INTERRUPT",
	StateRequestedInterrupt:  "REQUESTED_INTERRUPT",
	StatePreBeginControl:     "PRE_BEGIN_CONTROL",
	StateBeginControl:        "BEGIN_CONTROL",
	StateDriveCB0:            "DRIVE_CB0",
	StateLatchCB0:            "LATCH_CB0",
	StateDriveCB1:            "DRIVE_CB1",
	StateLatchCB1:            "LATCH_CB1",
	StateDriveIdle:           "DRIVE_IDLE",
	StateBeginIdle:           "BEGIN_IDLE",
	StateError:               "ERROR",
}

func (s State) String() string {
	if int(s) < len(stateNames) && stateNames[s] != "" {
		return stateNames[s]
	}
	return "UNKNOWN_STATE"
}

// inInterruptRequest reports whether s is one of the three clock-held
// interrupt assertion phases, during which clock-out is forced high
// regardless of clock-in.
func (s State) inInterruptRequest() bool {
	return s == StateRequestInterrupt || s == StateRequestingInterrupt || s == StateRequestedInterrupt
}

// inInterruptWindow reports whether s falls in the range
// REQUEST_INTERRUPT..BEGIN_CONTROL, the window during which the data-edge
// handler mirrors data-in to data-out unconditionally, ignoring role.
func (s State) inInterruptWindow() bool {
	return s >= StateRequestInterrupt && s <= StateBeginControl
}
