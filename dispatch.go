package mbus

// dispatchCompletion fires exactly one client callback for the
// transaction that just ended, in order of precedence: a locally detected
// error, then a completed transmit, then a completed receive. A node that
// was neither the sender nor the addressee of this transaction (plain
// RoleForward throughout) gets no callback at all.
//
// The sender of an overflowed frame never locally observes the overflow —
// it learns about it only through the CB1 acknowledgment bit recorded in
// ack, which this function translates back into RecvOverflow.
func (e *Engine) dispatchCompletion() {
	switch {
	case e.errKind != NoError:
		e.cfg.error(e.errKind)

	case e.txByteIdx > 0:
		sendErr := NoError
		if e.ack == 1 {
			sendErr = RecvOverflow
		}
		e.cfg.sendDone(e.txByteIdx, sendErr)

	case e.rxByteIdx > 0:
		releaseRxSlot(e.cfg.RxSlots, e.rxSlot, e.rxByteIdx)
		e.cfg.recv(e.rxSlot)
	}
}
