package procsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/procsim"
)

// buildDefault mirrors the "defaults" configuration spec.md's end-to-end
// scenarios are defined against: R=8, k0=1, k1=1, k2=1, F=2 (RS_CAP=6).
func buildDefault(src procsim.TraceSource) *procsim.Controller {
	return procsim.NewBuilder().
		WithResultBuses(8).
		WithFUCounts(1, 1, 1).
		WithFetchWidth(2).
		WithTraceSource(src).
		Build()
}

var _ = Describe("end-to-end scenarios", func() {
	It("retires a single independent instruction with non-decreasing stage cycles", func() {
		ctrl := buildDefault(newSliceTraceSource(rec(0, -1, -1, 1)))

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		Expect(stats.RetiredInstruction).To(Equal(1))

		log := ctrl.RetiredLog()
		Expect(log).To(HaveLen(1))

		inst := log[0]
		Expect(inst.FetchCycle).To(BeNumerically("<=", inst.DispatchCycle))
		Expect(inst.DispatchCycle).To(BeNumerically("<=", inst.ScheduleCycle))
		Expect(inst.ScheduleCycle).To(BeNumerically("<=", inst.ExecuteCycle))
		Expect(inst.ExecuteCycle).To(BeNumerically("<=", inst.StateUpdateCycle))
		Expect(stats.CycleCount).To(Equal(inst.StateUpdateCycle))
	})

	It("serializes two same-class instructions through one functional unit", func() {
		ctrl := buildDefault(newSliceTraceSource(
			rec(0, -1, -1, 1),
			rec(0, -1, -1, 2),
		))

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		Expect(stats.RetiredInstruction).To(Equal(2))

		log := ctrl.RetiredLog()
		Expect(log).To(HaveLen(2))
		// Only one class-0 FU exists: the second instruction cannot fire in
		// the same cycle as the first.
		Expect(log[1].ExecuteCycle).To(BeNumerically(">", log[0].ExecuteCycle))
	})

	It("serializes a RAW dependency chain through one functional unit", func() {
		ctrl := buildDefault(newSliceTraceSource(
			rec(0, -1, -1, 1),
			rec(0, 1, -1, 2),
			rec(0, 2, -1, 3),
		))

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		Expect(stats.RetiredInstruction).To(Equal(3))

		log := ctrl.RetiredLog()
		Expect(log).To(HaveLen(3))

		for i := 1; i < len(log); i++ {
			Expect(log[i].ExecuteCycle).To(BeNumerically(">", log[i-1].ExecuteCycle))
			Expect(log[i].Tag).To(BeNumerically(">", log[i-1].Tag))
		}
	})

	It("resolves WAW so a later reader waits for the latest writer, not an earlier one", func() {
		// inst1 writes r5, inst2 (independent) also writes r5 before inst1
		// retires, inst3 reads r5: inst3 must depend on inst2, not inst1.
		ctrl := buildDefault(newSliceTraceSource(
			rec(0, -1, -1, 5),
			rec(1, -1, -1, 5),
			rec(0, 5, -1, 6),
		))

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		Expect(stats.RetiredInstruction).To(Equal(3))

		log := ctrl.RetiredLog()
		Expect(log).To(HaveLen(3))

		// inst3 cannot execute before inst2 (its true producer) completes.
		second, third := log[1], log[2]
		Expect(third.ExecuteCycle).To(BeNumerically(">", second.ExecuteCycle))
	})

	It("throttles completions on result-bus bandwidth", func() {
		trace := func() procsim.TraceSource {
			return newSliceTraceSource(rec(0, -1, -1, 1), rec(0, -1, -1, 2))
		}

		narrow := procsim.NewBuilder().
			WithResultBuses(1).
			WithFUCounts(2, 1, 1).
			WithFetchWidth(2).
			WithTraceSource(trace()).
			Build()

		wide := procsim.NewBuilder().
			WithResultBuses(2).
			WithFUCounts(2, 1, 1).
			WithFetchWidth(2).
			WithTraceSource(trace()).
			Build()

		var narrowStats, wideStats procsim.Statistics
		Expect(narrow.Run(&narrowStats)).To(Succeed())
		Expect(wide.Run(&wideStats)).To(Succeed())

		Expect(narrowStats.RetiredInstruction).To(Equal(2))
		Expect(wideStats.RetiredInstruction).To(Equal(2))
		// Fewer result buses than simultaneous completions must not retire
		// faster than more result buses (P8, monotone-resources).
		Expect(narrowStats.CycleCount).To(BeNumerically(">=", wideStats.CycleCount))
	})

	It("stalls dispatch behind a small RS while a dependent chain grows the DQ", func() {
		records := make([]procsim.InstRecord, 0, 12)
		for i := 0; i < 12; i++ {
			src := i
			if i == 0 {
				src = -1
			}
			records = append(records, rec(0, src, -1, i+1))
		}

		// k0=1 alone yields RS_CAP=2, matching the boundary scenario's
		// "RS_CAP=2, F=4" configuration.
		ctrl := procsim.NewBuilder().
			WithResultBuses(8).
			WithFUCounts(1, 0, 0).
			WithFetchWidth(4).
			WithTraceSource(newSliceTraceSource(records...)).
			Build()

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		Expect(stats.RetiredInstruction).To(Equal(12))
		Expect(stats.MaxDispSize).To(BeNumerically(">", 0))
		Expect(stats.AvgDispSize).To(BeNumerically(">", 0))
	})
})
