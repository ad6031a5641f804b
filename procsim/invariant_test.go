package procsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/procsim"
)

var _ = Describe("quantified invariants", func() {
	It("retires every fetched instruction with unique, increasing tags and monotone stage cycles", func() {
		records := make([]procsim.InstRecord, 0, 20)
		for i := 0; i < 20; i++ {
			src := (i - 3)
			if src < 0 {
				src = -1
			}

			records = append(records, rec(i%3, src, -1, i))
		}

		ctrl := buildDefault(newSliceTraceSource(records...))

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		// P9: retired count equals instructions fetched.
		Expect(stats.RetiredInstruction).To(Equal(20))

		log := ctrl.RetiredLog()
		Expect(log).To(HaveLen(20))

		seen := map[uint64]bool{}

		for i, inst := range log {
			// P1: unique tags in [1, next_tag).
			Expect(seen[inst.Tag]).To(BeFalse())
			seen[inst.Tag] = true
			Expect(inst.Tag).To(BeNumerically(">=", 1))

			// P5: retired-log tags strictly increasing.
			if i > 0 {
				Expect(inst.Tag).To(BeNumerically(">", log[i-1].Tag))
			}

			// P6: stage-entry cycles never regress.
			Expect(inst.FetchCycle).To(BeNumerically("<=", inst.DispatchCycle))
			Expect(inst.DispatchCycle).To(BeNumerically("<=", inst.ScheduleCycle))
			Expect(inst.ScheduleCycle).To(BeNumerically("<=", inst.ExecuteCycle))
			Expect(inst.ExecuteCycle).To(BeNumerically("<=", inst.StateUpdateCycle))
		}

		// P10: structural bound on average fire rate (k0+k1+k2 = 3).
		Expect(stats.AvgInstFired).To(BeNumerically("<=", 3))
	})

	It("is deterministic across repeated runs of the same trace", func() {
		records := []procsim.InstRecord{
			rec(0, -1, -1, 1),
			rec(1, 1, -1, 2),
			rec(2, 2, -1, 3),
			rec(0, -1, -1, 4),
		}

		var first, second procsim.Statistics
		Expect(buildDefault(newSliceTraceSource(records...)).Run(&first)).To(Succeed())
		Expect(buildDefault(newSliceTraceSource(records...)).Run(&second)).To(Succeed())

		// P7: bit-identical statistics for a fixed trace.
		Expect(first).To(Equal(second))
	})

	It("terminates in the cycle the last instruction retires when fetch width exceeds trace length", func() {
		ctrl := procsim.NewBuilder().
			WithResultBuses(8).
			WithFUCounts(1, 1, 1).
			WithFetchWidth(64).
			WithTraceSource(newSliceTraceSource(rec(0, -1, -1, 1))).
			Build()

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		log := ctrl.RetiredLog()
		Expect(log).To(HaveLen(1))
		Expect(stats.CycleCount).To(Equal(log[0].StateUpdateCycle))
	})
})
