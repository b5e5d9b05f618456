package mbus

// resolvePriorityArbitration implements the PRIO_LATCH decision of the
// priority arbitration round that follows ordinary arbitration. A node
// that lost ordinary arbitration but still holds a pending priority send
// (txAttempt && txPriority) gets one more chance to win the bus here.
func (e *Engine) resolvePriorityArbitration() {
	dataIn := e.lastDataIn
	switch {
	case e.role == RoleTransmit && e.txPriority:
		// Already winning with priority asserted; nothing contests it.
	case e.role == RoleTransmit && !e.txPriority:
		if dataIn {
			e.role = RoleForward
		}
	case e.role != RoleTransmit && e.txAttempt && e.txPriority:
		if !dataIn {
			e.role = RoleTransmit
		} else {
			e.role = RoleForward
		}
	default:
		e.role = RoleForward
	}
}
