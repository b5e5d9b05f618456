package mbus

// Role is the logical part a node plays in the transaction currently
// occupying the bus. Exactly one role governs any particular phase; role
// transitions happen only at the state boundaries described alongside
// State.
type Role uint8

const (
	// RoleForward mirrors data-in to data-out; the default, non-participating role.
	RoleForward Role = iota
	// RoleTransmit drives data-out from the transmit buffer.
	RoleTransmit
	// RoleReceive captures data-in into a receive buffer slot.
	RoleReceive
	// RoleReceiveBroadcast is a tentative receive pending channel match.
	RoleReceiveBroadcast
	// RoleInterrupter drives the control bits as the node that asserted
	// the interrupt-request sequence.
	RoleInterrupter
)

var roleNames = [...]string{
	RoleForward:          "FORWARD",
	RoleTransmit:         "TRANSMIT",
	RoleReceive:          "RECEIVE",
	RoleReceiveBroadcast: "RECEIVE_BROADCAST",
	RoleInterrupter:      "INTERRUPTER",
}

func (r Role) String() string {
	if int(r) < len(roleNames) && roleNames[r] != "" {
		return roleNames[r]
	}
	return "UNKNOWN_ROLE"
}
