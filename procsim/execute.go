package procsim

import "sort"

// executeStage runs the three ordered sub-phases of one cycle's execute
// call: broadcast, fire, complete. Each phase must fully finish before the
// next starts, mirroring the first half of a physical cycle.
type executeStage struct {
	rst     *registerStatusTable
	history *broadcastHistory
	fus     *funcUnits
	bus     *resultBus
}

func newExecuteStage(rst *registerStatusTable, history *broadcastHistory, fus *funcUnits, bus *resultBus) *executeStage {
	return &executeStage{rst: rst, history: history, fus: fus, bus: bus}
}

// executeResult reports how many instructions moved through each
// sub-phase this cycle, used both for statistics and for the progress
// check the stall guard relies on.
type executeResult struct {
	broadcast int
	fired     int
}

// run executes the three sub-phases in order and reports their counts.
func (e *executeStage) run(cycle int64, rs *reservationStation) executeResult {
	broadcastCount := e.broadcast(rs)
	fired := e.fire(cycle, rs)
	e.complete(cycle, rs)

	return executeResult{broadcast: broadcastCount, fired: fired}
}

// broadcast (E1) drains up to the bus's bandwidth, freeing the FU that was
// holding each broadcast tag and updating the RST.
func (e *executeStage) broadcast(rs *reservationStation) int {
	drained := e.bus.drain()

	for _, b := range drained {
		e.history.mark(b.tag)

		if inst, ok := rs.get(b.tag); ok {
			inst.ResultBroadcast = true
		}

		e.fus.freeByTag(b.tag)

		if validReg(b.dst) {
			e.rst.resolve(b.dst, b.tag)
		}
	}

	return len(drained)
}

// fire (E2) allocates a free unit to each ready-and-unfired RS entry, in
// ascending-tag order.
func (e *executeStage) fire(cycle int64, rs *reservationStation) int {
	var ready []*Inst
	rs.each(func(inst *Inst) {
		if inst.ReadyToFire && !inst.Fired {
			ready = append(ready, inst)
		}
	})

	sort.Slice(ready, func(i, j int) bool { return ready[i].Tag < ready[j].Tag })

	fired := 0

	for _, inst := range ready {
		pool := e.fus.pool(inst.Class)

		idx, ok := pool.allocate(inst.Tag)
		if !ok {
			continue
		}

		inst.Fired = true
		inst.ExecuteCycle = cycle
		inst.FUID = idx
		fired++
	}

	return fired
}

// complete (E3) advances fired-but-not-completed entries whose FU has
// finished, enqueuing their result. The FU is not freed here: it stays
// busy until the corresponding broadcast, per the freed-at-broadcast
// policy that makes the CDB a true throughput limit.
func (e *executeStage) complete(cycle int64, rs *reservationStation) {
	var completing []*Inst

	rs.each(func(inst *Inst) {
		if !inst.Fired || inst.Completed {
			return
		}

		pool := e.fus.pool(inst.Class)

		idx, ok := pool.findByTag(inst.Tag)
		if !ok {
			return
		}

		unit := &pool.units[idx]
		unit.latencyRemaining--

		if unit.latencyRemaining <= 0 {
			completing = append(completing, inst)
		}
	})

	sort.Slice(completing, func(i, j int) bool { return completing[i].Tag < completing[j].Tag })

	for _, inst := range completing {
		inst.Completed = true
		inst.CompletedCycle = cycle
		e.bus.enqueue(inst.Tag, inst.Dst)
	}
}
