package sim_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowlabs/mbus"
	"github.com/flowlabs/mbus/pkg/sim"
)

func joinEngine(t *testing.T, ring *sim.Ring) (*sim.Node, *mbus.Engine) {
	t.Helper()
	node := ring.Join("")
	engine := mbus.NewEngine(node)
	node.Bind(engine)
	engine.Init(&mbus.Config{})
	return node, engine
}

func TestTickAdvancesEveryNodeInLockstep(t *testing.T) {
	ring := sim.NewRing(nil)
	_, e1 := joinEngine(t, ring)
	node2, e2 := joinEngine(t, ring)
	_, e3 := joinEngine(t, ring)

	require.Equal(t, mbus.StateIdle, e1.State())
	require.Equal(t, mbus.StateIdle, e2.State())
	require.Equal(t, mbus.StateIdle, e3.State())

	ring.Tick(node2, mbus.PinClockOut, false)

	assert.Equal(t, mbus.StatePrearb, e1.State())
	assert.Equal(t, mbus.StatePrearb, e2.State())
	assert.Equal(t, mbus.StatePrearb, e3.State())
}

func TestSingleNodeRingDoesNotForward(t *testing.T) {
	ring := sim.NewRing(nil)
	node, engine := joinEngine(t, ring)

	assert.NotPanics(t, func() {
		ring.Tick(node, mbus.PinClockOut, false)
	})
	assert.Equal(t, mbus.StatePrearb, engine.State())
}
