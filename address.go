package mbus

// bitVal converts a sampled line level into the bit value the address and
// data shift registers accumulate.
func bitVal(level bool) uint32 {
	if level {
		return 1
	}
	return 0
}

// claimRxSlot asks the receive buffer pool for a free slot to hold an
// incoming frame addressed to this node. If none is free, the engine
// promotes itself to TRANSMIT and begins the interrupt-request sequence
// with RecvOverflow, per the no-slot-available rule.
func (e *Engine) claimRxSlot(addr uint32) State {
	idx, ok := selectRxSlot(e.cfg.RxSlots)
	if !ok {
		e.role = RoleTransmit
		return e.beginInterruptRequest(RecvOverflow)
	}
	e.rxSlot = idx
	e.cfg.RxSlots[idx].Addr = addr
	e.rxBitIdx = 0
	e.rxByteIdx = 0
	return StateDriveData
}

// latchShortAddrBit accumulates one bit of the 8-bit short-address field,
// LSB-first, matching how driveTxBit shifts tx_buf out: bit 0 first, so the
// byte rxAddr holds after 8 bits is the exact value the sender wrote into
// the frame's address byte. Classification needs the whole byte — the high
// nibble (escape to long-address decode on 0xF, this node's own short
// prefix, or the broadcast marker 0x0) arrives as the last 4 bits of the
// byte, not the first — so it happens in one pass once bit 8 lands rather
// than split across bit 4 and bit 8.
func (e *Engine) latchShortAddrBit() State {
	e.rxAddr |= bitVal(e.lastDataIn) << uint(e.addrBitCount)
	e.addrBitCount++
	if e.addrBitCount < 8 {
		return StateDriveShortAddr
	}

	highNibble := uint8(e.rxAddr>>4) & 0xF
	switch {
	case highNibble == 0xF:
		e.role = RoleForward
		e.rxAddr = 0
		e.addrBitCount = 0
		return StateDriveLongAddr
	case highNibble == e.cfg.ShortPrefix&0xF:
		e.role = RoleReceive
	case highNibble == 0x0:
		e.role = RoleReceiveBroadcast
	default:
		e.role = RoleForward
	}

	e.resolveBroadcastChannel()
	if e.role == RoleReceive {
		addr := (e.rxAddr & 0xFF) << 24
		return e.claimRxSlot(addr)
	}
	return StateDriveData
}

// resolveBroadcastChannel converts a tentative RoleReceiveBroadcast into
// RoleReceive if the low 4 bits of the accumulated address (the channel
// number) are subscribed in Config.BroadcastChannels, or back to
// RoleForward otherwise. A no-op for any other role.
func (e *Engine) resolveBroadcastChannel() {
	if e.role != RoleReceiveBroadcast {
		return
	}
	channel := uint8(e.rxAddr & 0xF)
	if e.cfg.BroadcastChannels&(1<<channel) != 0 {
		e.role = RoleReceive
	} else {
		e.role = RoleForward
	}
}

// latchLongAddrBit accumulates one bit of the 32-bit long-address field
// that follows a short-address escape, LSB-first like every other field on
// the wire: 4 reserved low bits, then a 24-bit prefix, then a 4-bit
// broadcast channel in the top nibble. All of it is classified in one pass
// once the full 32 bits have landed, for the same reason short-address
// classification waits for the whole byte.
func (e *Engine) latchLongAddrBit() State {
	e.rxAddr |= bitVal(e.lastDataIn) << uint(e.addrBitCount)
	e.addrBitCount++
	if e.addrBitCount < 32 {
		return StateDriveLongAddr
	}

	prefix := (e.rxAddr >> 4) & 0xFFFFFF
	channel := uint8(e.rxAddr>>28) & 0xF
	switch {
	case prefix == e.cfg.FullPrefix&0xFFFFFF:
		e.role = RoleReceive
	case prefix == 0 && e.cfg.BroadcastChannels&(1<<channel) != 0:
		e.role = RoleReceive
	default:
		e.role = RoleForward
	}

	if e.role == RoleReceive {
		return e.claimRxSlot(e.rxAddr)
	}
	return StateDriveData
}
