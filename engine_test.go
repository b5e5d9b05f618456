package mbus_test

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlabs/mbus"
	"github.com/flowlabs/mbus/pkg/sim"
)

func newSlots(n, capacity int) []mbus.RxSlot {
	slots := make([]mbus.RxSlot, n)
	for i := range slots {
		slots[i] = mbus.RxSlot{Buf: make([]byte, capacity), Length: capacity}
	}
	return slots
}

type harness struct {
	ring     *sim.Ring
	nodes    []*sim.Node
	engines  []*mbus.Engine
	sendErrs []mbus.ErrorKind
	sendN    []int
	recvAddr []uint32
	recvBuf  [][]byte
	errs     []mbus.ErrorKind
}

func newHarness(t *testing.T, shortPrefixes []uint8, broadcastMasks []uint16, slotCounts []int, slotCap int) *harness {
	t.Helper()
	h := &harness{
		ring:     sim.NewRing(slog.Default()),
		sendErrs: make([]mbus.ErrorKind, len(shortPrefixes)),
		sendN:    make([]int, len(shortPrefixes)),
		recvAddr: make([]uint32, len(shortPrefixes)),
		recvBuf:  make([][]byte, len(shortPrefixes)),
		errs:     make([]mbus.ErrorKind, len(shortPrefixes)),
	}
	for i := range shortPrefixes {
		i := i
		slots := newSlots(slotCounts[i], slotCap)
		node := h.ring.Join("")
		engine := mbus.NewEngine(node)
		node.Bind(engine)
		cfg := &mbus.Config{
			ShortPrefix:       shortPrefixes[i],
			BroadcastChannels: broadcastMasks[i],
			RxSlots:           slots,
			OnSendDone: func(bytesSent int, err mbus.ErrorKind) {
				h.sendN[i] = bytesSent
				h.sendErrs[i] = err
			},
			OnRecv: func(slotIndex int) {
				slot := slots[slotIndex]
				h.recvAddr[i] = slot.Addr
				h.recvBuf[i] = append([]byte(nil), slot.Buf[:-slot.Length]...)
			},
			OnError: func(err mbus.ErrorKind) {
				h.errs[i] = err
			},
		}
		engine.Init(cfg)
		h.nodes = append(h.nodes, node)
		h.engines = append(h.engines, engine)
	}
	return h
}

// run pulses the ring's clock from node 0, alternating level, standing in
// for whatever node happens to be holding the shared oscillator at rest.
// The first edge is falling, since Init leaves the clock shadow high.
func (h *harness) run(edges int) {
	for i := 0; i < edges; i++ {
		level := i%2 == 1
		h.ring.Tick(h.nodes[0], mbus.PinClockOut, level)
	}
}

func TestShortUnicastRoundTrip(t *testing.T) {
	h := newHarness(t, []uint8{0x5, 0x3}, []uint16{0, 0}, []int{2, 2}, 8)
	frame := []byte{0x30, 0xAB, 0xCD}
	h.engines[0].Send(frame, len(frame), false)

	h.run(400)

	require.Equal(t, mbus.NoError, h.errs[0])
	require.Equal(t, mbus.NoError, h.errs[1])
	assert.Equal(t, len(frame), h.sendN[0])
	assert.Equal(t, mbus.NoError, h.sendErrs[0])
	assert.Equal(t, uint32(0x30000000), h.recvAddr[1])
	assert.Equal(t, frame[1:], h.recvBuf[1])
}

func TestBroadcastAccepted(t *testing.T) {
	h := newHarness(t, []uint8{0x3, 0x5}, []uint16{0, 1 << 5}, []int{2, 2}, 8)
	frame := []byte{0x05, 0x42}
	h.engines[0].Send(frame, len(frame), false)

	h.run(300)

	assert.Equal(t, mbus.NoError, h.sendErrs[0])
	assert.Equal(t, frame[1:], h.recvBuf[1])
}

func TestBroadcastRejectedWhenChannelNotSubscribed(t *testing.T) {
	h := newHarness(t, []uint8{0x3, 0x5}, []uint16{0, 0}, []int{2, 2}, 8)
	frame := []byte{0x05, 0x42}
	h.engines[0].Send(frame, len(frame), false)

	h.run(300)

	assert.Equal(t, mbus.NoError, h.sendErrs[0])
	assert.Nil(t, h.recvBuf[1])
}

func TestReceiveOverflowReportsNakToSender(t *testing.T) {
	h := newHarness(t, []uint8{0x5, 0x3}, []uint16{0, 0}, []int{2, 1}, 1)
	frame := []byte{0x30, 0x01, 0x02}
	h.engines[0].Send(frame, len(frame), false)

	h.run(400)

	assert.Equal(t, mbus.RecvOverflow, h.sendErrs[0])
	assert.Equal(t, mbus.RecvOverflow, h.errs[1])
}

func TestClockSynchErrorLatches(t *testing.T) {
	driver := mbus.PinDriverFunc(func(mbus.Pin, bool) {})
	engine := mbus.NewEngine(driver)
	var gotErr mbus.ErrorKind
	engine.Init(&mbus.Config{
		RxSlots: newSlots(1, 8),
		OnError: func(err mbus.ErrorKind) { gotErr = err },
	})

	engine.ClockEdge(false)
	engine.ClockEdge(false) // repeated level: synchronization error

	assert.Equal(t, mbus.StateError, engine.State())
	assert.Equal(t, mbus.ClockSynchError, gotErr)

	// Further edges are discarded once latched in ERROR.
	before := engine.State()
	engine.ClockEdge(true)
	assert.Equal(t, before, engine.State())
}

func TestDataSynchErrorLatches(t *testing.T) {
	driver := mbus.PinDriverFunc(func(mbus.Pin, bool) {})
	engine := mbus.NewEngine(driver)
	var gotErr mbus.ErrorKind
	engine.Init(&mbus.Config{
		RxSlots: newSlots(1, 8),
		OnError: func(err mbus.ErrorKind) { gotErr = err },
	})

	engine.DataEdge(false)
	engine.DataEdge(false)

	assert.Equal(t, mbus.StateError, engine.State())
	assert.Equal(t, mbus.DataSynchError, gotErr)
}

func TestSendRejectedWhenBusy(t *testing.T) {
	h := newHarness(t, []uint8{0x3, 0x5}, []uint16{0, 0}, []int{2, 2}, 8)
	frame := []byte{0x30, 0x01}
	h.engines[0].Send(frame, len(frame), false)
	h.run(1) // leaves IDLE; a second Send before completion must be rejected
	h.engines[0].Send(frame, len(frame), false)

	assert.Equal(t, mbus.BusBusy, h.sendErrs[0])
}

func TestPriorityOverridesOrdinaryLoser(t *testing.T) {
	h := newHarness(t, []uint8{0x3, 0x5, 0x7}, []uint16{0, 0, 0}, []int{2, 2, 2}, 8)
	low := []byte{0x70, 0x01}
	high := []byte{0x70, 0x02}
	h.engines[0].Send(low, len(low), false)
	h.engines[1].Send(high, len(high), true)

	h.run(400)

	assert.Equal(t, mbus.NoError, h.sendErrs[1])
	assert.Equal(t, high[1:], h.recvBuf[2])
}
