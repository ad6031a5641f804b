package procsim

import "sort"

// stateUpdateStage retires completed instructions whose result either has
// already broadcast, or sits within the result bus's next drain window
// (the half-cycle rule: retirement may see a broadcast happening in the
// same cycle, in the execute stage that runs after it within the Tick).
type stateUpdateStage struct {
	bus *resultBus
}

func newStateUpdateStage(bus *resultBus) *stateUpdateStage {
	return &stateUpdateStage{bus: bus}
}

func (s *stateUpdateStage) run(cycle int64, rs *reservationStation) []*Inst {
	var retiring []*Inst

	rs.each(func(inst *Inst) {
		if !inst.Completed || inst.Retired {
			return
		}

		if inst.ResultBroadcast || s.bus.peekWindow(inst.Tag) {
			retiring = append(retiring, inst)
		}
	})

	sort.SliceStable(retiring, func(i, j int) bool {
		if retiring[i].CompletedCycle != retiring[j].CompletedCycle {
			return retiring[i].CompletedCycle < retiring[j].CompletedCycle
		}

		return retiring[i].Tag < retiring[j].Tag
	})

	for _, inst := range retiring {
		inst.Retired = true
		inst.StateUpdateCycle = cycle
		rs.remove(inst.Tag)
	}

	return retiring
}
