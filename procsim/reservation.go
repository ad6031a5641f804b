package procsim

import "github.com/sarchlab/procsim/sim"

// reservationStation holds dispatched, not-yet-retired instructions,
// indexed by tag for stable lookup even while entries are appended and
// removed each cycle. Entries are removed by tag, not FIFO order, so it
// is not built on sim.UnboundedBuffer. It is still a sim.Hookable, firing
// the same HookPosBufPush/HookPosBufPop positions sim.UnboundedBuffer
// uses, so a tracer can observe RS occupancy without caring that the
// access pattern differs.
type reservationStation struct {
	sim.HookableBase

	capacity int
	entries  map[uint64]*Inst
	order    []uint64 // tags in dispatch order, for stable iteration
}

func newReservationStation(capacity int) *reservationStation {
	return &reservationStation{
		capacity: capacity,
		entries:  make(map[uint64]*Inst),
	}
}

// Name identifies the station for hook purposes.
func (rs *reservationStation) Name() string { return "ReservationStation" }

func (rs *reservationStation) len() int { return len(rs.entries) }

func (rs *reservationStation) freeSlots() int { return rs.capacity - len(rs.entries) }

func (rs *reservationStation) add(inst *Inst) {
	rs.entries[inst.Tag] = inst
	rs.order = append(rs.order, inst.Tag)

	if rs.NumHooks() > 0 {
		rs.InvokeHook(sim.HookCtx{Domain: rs, Pos: sim.HookPosBufPush, Item: inst})
	}
}

func (rs *reservationStation) get(tag uint64) (*Inst, bool) {
	inst, ok := rs.entries[tag]
	return inst, ok
}

// remove drops tag from the station. Order is preserved by filtering, which
// is adequate at the sizes this simulator targets (RS_CAP is small).
func (rs *reservationStation) remove(tag uint64) {
	inst, existed := rs.entries[tag]
	delete(rs.entries, tag)

	filtered := rs.order[:0]
	for _, t := range rs.order {
		if t != tag {
			filtered = append(filtered, t)
		}
	}

	rs.order = filtered

	if existed && rs.NumHooks() > 0 {
		rs.InvokeHook(sim.HookCtx{Domain: rs, Pos: sim.HookPosBufPop, Item: inst})
	}
}

// each visits every live entry in stable dispatch order.
func (rs *reservationStation) each(fn func(*Inst)) {
	for _, tag := range rs.order {
		if inst, ok := rs.entries[tag]; ok {
			fn(inst)
		}
	}
}
