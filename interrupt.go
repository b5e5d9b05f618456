package mbus

// advanceInterruptHold steps the three-phase interrupt-request chain this
// node drives while it holds its own clock-out high to claim the bus for
// a control handoff. Only the node that locally reaches
// StateRequestedInterrupt is promoted to RoleInterrupter, by DataEdge,
// once the end-of-message signaling pattern is observed.
func (e *Engine) advanceInterruptHold() {
	switch e.state {
	case StateRequestInterrupt:
		e.state = StateRequestingInterrupt
	case StateRequestingInterrupt:
		e.state = StateRequestedInterrupt
	case StateRequestedInterrupt:
		// Holds here; only DataEdge's forced jump moves it onward.
	}
}

// driveCB0 asserts CB0 for the node that originated the interrupt
// request: high signals a clean end of message, low signals the NAK that
// follows an overflow.
func (e *Engine) driveCB0() {
	if e.role == RoleInterrupter {
		e.setData(e.errKind == NoError)
	}
}

// latchCB0 samples CB0 and updates role ahead of the CB1 handoff: a node
// that was RECEIVE switches to TRANSMIT so it can drive the acknowledgment
// on CB1; any other non-error role drops to FORWARD, since it has nothing
// left to assert.
func (e *Engine) latchCB0() State {
	wasReceive := e.role == RoleReceive
	e.ack = uint8(bitVal(e.lastDataIn))
	if wasReceive {
		e.role = RoleTransmit
	}
	if e.errKind == NoError && !wasReceive {
		e.role = RoleForward
	}
	return StateDriveCB1
}

// driveCB1 asserts CB1: the interrupter drives high on overflow (the NAK),
// while a just-promoted receiver-turned-transmitter drives low to
// acknowledge a clean CB0.
func (e *Engine) driveCB1() {
	switch {
	case e.role == RoleInterrupter:
		e.setData(e.errKind == RecvOverflow)
	case e.role == RoleTransmit && e.ack == 1:
		e.setData(false)
	}
}

// latchCB1 records the final acknowledgment bit. Only a node that
// transmitted data this transaction cares about this value: it is how a
// remote overflow NAK travels back to the sender, since that sender never
// locally observes the overflow.
func (e *Engine) latchCB1() {
	if e.txByteIdx > 0 {
		e.ack = uint8(bitVal(e.lastDataIn))
	}
}
