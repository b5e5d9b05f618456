package mbus

// step advances the finite state machine by one clock edge. It is called
// from ClockEdge whenever the engine is not parked in one of the three
// interrupt-request hold states (those advance via advanceInterruptHold
// instead).
func (e *Engine) step() {
	switch e.state {

	case StateIdle:
		// A clock edge only reaches here once some node on the ring has
		// begun bit-banging, so the bus is already leaving quiescence.
		e.state = StatePrearb

	case StatePrearb:
		e.state = StateArbitration

	case StateArbitration:
		if !e.lastDataIn && !e.lastDataOut {
			e.role = RoleTransmit
		} else {
			e.role = RoleForward
		}
		e.state = StatePrioDrive

	case StatePrioDrive:
		e.setData(e.txAttempt && e.txPriority)
		e.state = StatePrioLatch

	case StatePrioLatch:
		e.resolvePriorityArbitration()
		if e.role == RoleTransmit {
			e.txBitIdx = 0
			e.txByteIdx = 0
			e.state = StateDriveData
		} else {
			// Every non-transmitting node starts its address decode on the
			// very same edge the transmitter starts driving tx_buf[0], bit
			// for bit: there is no reserved filler bit between arbitration
			// and the address field.
			e.rxAddr = 0
			e.addrBitCount = 0
			e.state = StateDriveShortAddr
		}

	case StateDriveShortAddr:
		e.state = StateLatchShortAddr

	case StateLatchShortAddr:
		e.state = e.latchShortAddrBit()

	case StateDriveLongAddr:
		e.state = StateLatchLongAddr

	case StateLatchLongAddr:
		e.state = e.latchLongAddrBit()

	case StateDriveData:
		if e.role == RoleTransmit {
			e.driveTxBit()
		}
		e.state = StateLatchData

	case StateLatchData:
		e.state = e.latchDataBit()

	case StatePreBeginControl:
		// The original design intentionally falls through from
		// PRE_BEGIN_CONTROL into BEGIN_CONTROL within a single edge.
		e.state = StateBeginControl
		fallthrough

	case StateBeginControl:
		e.state = StateDriveCB0

	case StateDriveCB0:
		e.driveCB0()
		e.state = StateLatchCB0

	case StateLatchCB0:
		e.state = e.latchCB0()

	case StateDriveCB1:
		e.driveCB1()
		e.state = StateLatchCB1

	case StateLatchCB1:
		e.latchCB1()
		e.state = StateDriveIdle

	case StateDriveIdle:
		e.role = RoleForward
		e.state = StateBeginIdle

	case StateBeginIdle:
		if e.lastDataIn {
			e.state = StateIdle
		} else {
			e.state = StatePrearb
		}
	}
}
