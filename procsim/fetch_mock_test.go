package procsim_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/mock/gomock"

	"github.com/sarchlab/procsim/procsim"
)

var _ = Describe("fetch against a mocked trace source", func() {
	It("pulls exactly as many records as it retires, in order", func() {
		gomockCtrl := gomock.NewController(GinkgoT())
		defer gomockCtrl.Finish()

		src := NewMockTraceSource(gomockCtrl)

		gomock.InOrder(
			src.EXPECT().Next().Return(procsim.InstRecord{OpCode: 0, SrcReg: [2]int{-1, -1}, DestReg: 1}, true),
			src.EXPECT().Next().Return(procsim.InstRecord{OpCode: 1, SrcReg: [2]int{1, -1}, DestReg: 2}, true),
			src.EXPECT().Next().Return(procsim.InstRecord{}, false),
		)

		ctrl := procsim.NewBuilder().
			WithResultBuses(8).
			WithFUCounts(1, 1, 1).
			WithFetchWidth(2).
			WithTraceSource(src).
			Build()

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())
		Expect(stats.RetiredInstruction).To(Equal(2))
	})
})
