package mbus

import "log/slog"

// Engine is the link-layer protocol engine: a single-threaded, interrupt-
// driven finite state machine advanced by ClockEdge and DataEdge. All
// state lives in the value itself, so multiple Engines (e.g. several
// simulated nodes sharing a process, see pkg/sim) are independent and
// require no synchronization between each other — only the documented
// non-reentrancy of a single Engine's own edge handlers is assumed.
type Engine struct {
	cfg    *Config
	driver PinDriver
	logger *slog.Logger

	state   State
	role    Role
	errKind ErrorKind

	// Edge shadows.
	lastClkIn      bool
	lastDataIn     bool
	lastDataOut    bool
	interruptCount uint8

	// Transmit context.
	txBuf      []byte
	txLength   int
	txPriority bool
	txBitIdx   int
	txByteIdx  int
	// txAttempt is set by Send and stays true for the rest of the
	// transaction even if ordinary arbitration is lost, so a priority
	// send can still preempt during PRIO_LATCH.
	txAttempt bool

	// Receive context.
	rxAddr       uint32
	addrBitCount int
	rxBitIdx     int
	rxByteIdx    int
	rxSlot       int

	// ack latches the observed level of CB0/CB1 for the control-bit
	// exchange; see interrupt.go.
	ack uint8
}

// NewEngine returns an Engine bound to driver. Init must still be called
// with a Config before any edge is delivered.
func NewEngine(driver PinDriver) *Engine {
	return &Engine{driver: driver, rxSlot: -1}
}

// Init binds config and resets all internal state to its initial values:
// state=IDLE, role=FORWARD, shadow levels high (recessive), cursors zero,
// error=NoError. Init may be called again after a latched ERROR to resume
// operation. Init still binds cfg and proceeds even when it returns
// ErrNoCallbacks; that error only warns that the engine will have no way
// to report what it does.
func (e *Engine) Init(cfg *Config) error {
	e.cfg = cfg
	e.logger = cfg.logger()
	e.state = StateIdle
	e.role = RoleForward
	e.lastClkIn = true
	e.lastDataIn = true
	e.lastDataOut = true
	e.interruptCount = 0
	e.resetTransaction()
	e.logger.Debug("mbus: engine initialized", "short_prefix", cfg.ShortPrefix, "full_prefix", cfg.FullPrefix)
	if cfg.OnSendDone == nil && cfg.OnRecv == nil && cfg.OnError == nil {
		return ErrNoCallbacks
	}
	return nil
}

// resetTransaction clears per-transaction cursors and the error latch. It
// runs at Init and again right after completion dispatch, so the next
// transaction starts from a clean slate.
func (e *Engine) resetTransaction() {
	e.txBuf = nil
	e.txLength = 0
	e.txPriority = false
	e.txBitIdx = 0
	e.txByteIdx = 0
	e.txAttempt = false
	e.rxAddr = 0
	e.addrBitCount = 0
	e.rxBitIdx = 0
	e.rxByteIdx = 0
	e.rxSlot = -1
	e.ack = 0
	e.errKind = NoError
}

// State reports the engine's current position in the finite state machine.
func (e *Engine) State() State { return e.state }

// Role reports the logical role this engine currently plays in the
// transaction occupying the bus.
func (e *Engine) Role() Role { return e.role }

// Send requests transmission of the length bytes of buf, the first of
// which is the caller-supplied destination address. If the bus is IDLE,
// this drives data-out low immediately to initiate arbitration on the next
// clock edge and returns nil; otherwise Config.OnSendDone fires
// synchronously with BusBusy and Send returns ErrBusBusy. Send returns
// ErrNotInitialized if called before Init.
func (e *Engine) Send(buf []byte, length int, priority bool) error {
	if e.cfg == nil {
		return ErrNotInitialized
	}
	if e.state != StateIdle {
		e.logger.Warn("mbus: send rejected, bus not idle", "state", e.state)
		e.cfg.sendDone(0, BusBusy)
		return ErrBusBusy
	}
	e.txBuf = buf
	e.txLength = length
	e.txPriority = priority
	e.txBitIdx = 0
	e.txByteIdx = 0
	e.txAttempt = true
	e.role = RoleTransmit
	e.lastDataOut = false
	e.driver.SetPin(PinDataOut, false)
	return nil
}

// ClockEdge is the entry point for clock-in transitions. It detects
// clock/clock synchronization errors, advances the state machine, and
// commands clock-out. It returns ErrNotInitialized if called before Init.
func (e *Engine) ClockEdge(level bool) error {
	if e.cfg == nil {
		return ErrNotInitialized
	}
	if e.state == StateError {
		return nil
	}
	if level == e.lastClkIn {
		e.enterError(ClockSynchError)
		return nil
	}
	wasLow := !e.lastClkIn
	e.lastClkIn = level
	e.interruptCount = 0

	if e.state.inInterruptRequest() {
		if wasLow {
			e.advanceInterruptHold()
		}
	} else {
		e.step()
	}

	if e.state.inInterruptRequest() {
		e.driver.SetPin(PinClockOut, true)
	} else {
		e.driver.SetPin(PinClockOut, level)
	}

	if e.state == StateBeginIdle {
		e.dispatchCompletion()
		e.resetTransaction()
	}
	return nil
}

// DataEdge is the entry point for data-in transitions. It detects
// data synchronization errors, recognizes the interrupt-request signaling
// pattern, and forwards data-in to data-out for every role except an
// actively transmitting one; inside the REQUEST_INTERRUPT..BEGIN_CONTROL
// window it forwards regardless of role. It returns ErrNotInitialized if
// called before Init.
func (e *Engine) DataEdge(level bool) error {
	if e.cfg == nil {
		return ErrNotInitialized
	}
	if e.state == StateError {
		return nil
	}
	if level == e.lastDataIn {
		e.enterError(DataSynchError)
		return nil
	}
	e.lastDataIn = level

	if level && e.interruptCount < 3 {
		e.interruptCount++
	}
	if e.interruptCount >= 3 {
		prior := e.state
		e.state = StatePreBeginControl
		if prior == StateRequestedInterrupt {
			e.role = RoleInterrupter
		}
	}

	if e.role != RoleTransmit || e.state.inInterruptWindow() {
		e.driver.SetPin(PinDataOut, level)
		e.lastDataOut = level
	}
	return nil
}

// enterError latches the engine in StateError and notifies the client.
// Further edges are no-ops until Init is called again.
func (e *Engine) enterError(kind ErrorKind) {
	e.state = StateError
	e.errKind = kind
	e.logger.Error("mbus: synchronization error", "kind", kind)
	e.cfg.error(kind)
}

// setData drives data-out to level and updates its shadow.
func (e *Engine) setData(level bool) {
	e.driver.SetPin(PinDataOut, level)
	e.lastDataOut = level
}

// beginInterruptRequest latches errKind and returns the state that starts
// the interrupt-request sequence. Callers that need to also promote this
// node to TRANSMIT (overflow cases) do so before calling this.
func (e *Engine) beginInterruptRequest(errKind ErrorKind) State {
	e.errKind = errKind
	return StateRequestInterrupt
}
