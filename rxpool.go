package mbus

// selectRxSlot scans for the first slot (in index order) whose Length is
// strictly positive and claims it for the incoming receive. Returns the
// slot index and true, or -1 and false if no slot is available.
func selectRxSlot(slots []RxSlot) (int, bool) {
	for i := range slots {
		if slots[i].Available() {
			return i, true
		}
	}
	return -1, false
}

// releaseRxSlot hands a claimed slot back to the client: the Length field
// is overwritten with the negated byte count, turning the ownership token
// non-positive. Called exactly once, from completion dispatch, and only
// when bytesReceived > 0.
func releaseRxSlot(slots []RxSlot, index int, bytesReceived int) {
	slots[index].Length = -bytesReceived
}
