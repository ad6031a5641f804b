package monitor_test

import (
	"encoding/json"
	"net/http"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/procsim/monitor"
	"github.com/sarchlab/procsim/procsim"
)

type onceSource struct {
	rec procsim.InstRecord
	ok  bool
}

func (s *onceSource) Next() (procsim.InstRecord, bool) {
	if !s.ok {
		return procsim.InstRecord{}, false
	}

	s.ok = false

	return s.rec, true
}

var _ = Describe("Server", func() {
	It("reports a snapshot and resource usage over HTTP", func() {
		src := &onceSource{
			rec: procsim.InstRecord{OpCode: 0, SrcReg: [2]int{-1, -1}, DestReg: 1},
			ok:  true,
		}

		ctrl := procsim.NewBuilder().
			WithResultBuses(8).
			WithFUCounts(1, 1, 1).
			WithFetchWidth(2).
			WithTraceSource(src).
			Build()

		var stats procsim.Statistics
		Expect(ctrl.Run(&stats)).To(Succeed())

		url, err := monitor.New(ctrl).Start()
		Expect(err).NotTo(HaveOccurred())

		resp, err := http.Get(url + "/api/snapshot")
		Expect(err).NotTo(HaveOccurred())
		defer resp.Body.Close()
		Expect(resp.StatusCode).To(Equal(http.StatusOK))

		var snap procsim.Snapshot
		Expect(json.NewDecoder(resp.Body).Decode(&snap)).To(Succeed())
		Expect(snap.RetiredCount).To(Equal(1))

		resp2, err := http.Get(url + "/api/resource")
		Expect(err).NotTo(HaveOccurred())
		defer resp2.Body.Close()
		Expect(resp2.StatusCode).To(Equal(http.StatusOK))
	})
})
