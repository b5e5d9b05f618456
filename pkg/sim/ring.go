// Package sim provides a synchronous, in-memory stand-in for an MBus
// wire: a Ring wires each member node's mbus.PinDriver calls directly into
// its neighbor's edge handlers, so a sequence of clock toggles exercises
// the full protocol across several mbus.Engine values in one process with
// no GPIO hardware and no network round trip.
//
// Ring drives every member from a single goroutine and strictly serializes
// delivery into each Engine — never recursively, even though one node's
// output can cascade into several neighbors' inputs before a Tick call
// returns. This mirrors the real hardware property that clock and data
// edges arrive one at a time, never re-entering a handler already running.
package sim

import (
	"log/slog"

	"github.com/flowlabs/mbus"
)

// Ring is a closed loop of nodes. Node i's clock-out and data-out feed
// node (i+1)%n's clock-in and data-in, mirroring how each physical node on
// the bus only ever talks to its immediate neighbor.
type Ring struct {
	logger *slog.Logger
	nodes  []*Node
	queue  []pendingEdge
}

// Node is both the ring's bookkeeping handle for a member and the
// mbus.PinDriver that member's Engine should be constructed with.
type Node struct {
	Name   string
	ring   *Ring
	engine *mbus.Engine
}

type pendingEdge struct {
	node  *Node
	pin   mbus.Pin
	level bool
}

// NewRing creates an empty ring. Join every member before calling Tick;
// membership, and therefore forwarding order, is fixed once edges start
// flowing.
func NewRing(logger *slog.Logger) *Ring {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ring{logger: logger}
}

// Join reserves a place on the ring and returns the Node to construct an
// mbus.Engine with. Call Bind once the engine exists: an Engine needs its
// PinDriver at construction time, but a Node can't resolve its forwarding
// target until every member has joined.
func (r *Ring) Join(name string) *Node {
	n := &Node{Name: name, ring: r}
	r.nodes = append(r.nodes, n)
	return n
}

// Bind attaches the Engine this Node drives. Must be called before Tick is
// used anywhere on the ring.
func (n *Node) Bind(engine *mbus.Engine) {
	n.engine = engine
}

func (n *Node) next() *Node {
	r := n.ring
	if len(r.nodes) < 2 {
		return nil
	}
	for i, cand := range r.nodes {
		if cand == n {
			return r.nodes[(i+1)%len(r.nodes)]
		}
	}
	return nil
}

// SetPin implements mbus.PinDriver. It never calls into the next node
// directly — that would re-enter an Engine from inside another Engine's
// handler — it only queues the edge for Tick to drain.
func (n *Node) SetPin(pin mbus.Pin, level bool) {
	next := n.next()
	if next == nil {
		return
	}
	n.ring.queue = append(n.ring.queue, pendingEdge{next, pin, level})
}

// Tick injects one externally sourced edge into origin's input — standing
// in for whatever host timer or GPIO interrupt drives that node's own
// clock generation — and then drains every edge it cascades to around the
// rest of the ring, in FIFO order, one Engine call at a time.
//
// The cascade stops rather than wrapping back into origin: a real ring
// does loop all the way around, but origin already observed this edge
// directly from Tick's own call, so re-delivering it after a full lap
// would look like a same-level repeat and falsely trip the synchronization
// detector. Every queued edge addressed to origin is dropped, not only the
// lap-back of the injected edge: data-out edges from origin's upstream
// neighbor are dropped too, so origin's data-in is never driven while it
// is the origin of Tick calls.
func (r *Ring) Tick(origin *Node, pin mbus.Pin, level bool) {
	r.deliver(origin, pin, level)
	for len(r.queue) > 0 {
		e := r.queue[0]
		r.queue = r.queue[1:]
		if e.node == origin {
			continue
		}
		r.deliver(e.node, e.pin, e.level)
	}
}

func (r *Ring) deliver(n *Node, pin mbus.Pin, level bool) {
	switch pin {
	case mbus.PinClockOut:
		n.engine.ClockEdge(level)
	case mbus.PinDataOut:
		n.engine.DataEdge(level)
	default:
		r.logger.Error("sim: unknown pin", "pin", pin, "node", n.Name)
	}
}
