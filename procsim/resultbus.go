package procsim

import (
	"sort"

	"github.com/sarchlab/procsim/sim"
)

// broadcast is one pending result-bus entry.
type broadcast struct {
	tag uint64
	dst int
}

// resultBus is the CDB FIFO: completions are inserted in ascending-tag
// order (a completion whose tag is lower than an entry still pending is
// placed ahead of it) and drained head-first, up to R per cycle. It is a
// sim.Hookable firing the same HookPosBufPush/HookPosBufPop positions
// sim.UnboundedBuffer uses, so a tracer can watch CDB occupancy the same
// way it would watch the Dispatch Queue.
type resultBus struct {
	sim.HookableBase

	bandwidth int
	pending   []broadcast
}

func newResultBus(bandwidth int) *resultBus {
	return &resultBus{bandwidth: bandwidth}
}

// Name identifies the bus for hook purposes.
func (rb *resultBus) Name() string { return "ResultBus" }

func (rb *resultBus) enqueue(tag uint64, dst int) {
	b := broadcast{tag: tag, dst: dst}

	i := sort.Search(len(rb.pending), func(i int) bool { return rb.pending[i].tag > tag })
	rb.pending = append(rb.pending, broadcast{})
	copy(rb.pending[i+1:], rb.pending[i:])
	rb.pending[i] = b

	if rb.NumHooks() > 0 {
		rb.InvokeHook(sim.HookCtx{Domain: rb, Pos: sim.HookPosBufPush, Item: b})
	}
}

// drain removes and returns up to rb.bandwidth entries from the head.
func (rb *resultBus) drain() []broadcast {
	n := rb.bandwidth
	if n > len(rb.pending) {
		n = len(rb.pending)
	}

	drained := append([]broadcast(nil), rb.pending[:n]...)
	rb.pending = rb.pending[n:]

	if rb.NumHooks() > 0 {
		for _, b := range drained {
			rb.InvokeHook(sim.HookCtx{Domain: rb, Pos: sim.HookPosBufPop, Item: b})
		}
	}

	return drained
}

// peekWindow reports whether tag is among the first rb.bandwidth pending
// entries, i.e. it will broadcast in this cycle's E1, which runs right
// after state update within the same Tick. State update uses this to
// retire in step with the half-cycle rule.
func (rb *resultBus) peekWindow(tag uint64) bool {
	n := rb.bandwidth
	if n > len(rb.pending) {
		n = len(rb.pending)
	}

	for _, b := range rb.pending[:n] {
		if b.tag == tag {
			return true
		}
	}

	return false
}

func (rb *resultBus) len() int { return len(rb.pending) }
