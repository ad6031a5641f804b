package procsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/procsim"
	"github.com/sarchlab/procsim/sim"
)

type posRecorder struct {
	positions []*sim.HookPos
}

func (r *posRecorder) Func(ctx sim.HookCtx) {
	r.positions = append(r.positions, ctx.Pos)
}

var _ = Describe("buffer instrumentation", func() {
	It("lets an external hook observe reservation station and result bus traffic", func() {
		rsHook := &posRecorder{}
		busHook := &posRecorder{}

		ctrl := procsim.NewBuilder().
			WithResultBuses(8).
			WithFUCounts(1, 1, 1).
			WithFetchWidth(2).
			WithTraceSource(newSliceTraceSource(rec(0, -1, -1, 1))).
			Build()

		ctrl.AcceptRSHook(rsHook)
		ctrl.AcceptResultBusHook(busHook)

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		Expect(rsHook.positions).To(ContainElement(sim.HookPosBufPush))
		Expect(rsHook.positions).To(ContainElement(sim.HookPosBufPop))
		Expect(busHook.positions).To(ContainElement(sim.HookPosBufPush))
		Expect(busHook.positions).To(ContainElement(sim.HookPosBufPop))
	})
})
