package procsim_test

import "github.com/sarchlab/procsim/procsim"

// rec is a shorthand for building trace records in scenario tables.
func rec(op, src0, src1, dst int) procsim.InstRecord {
	return procsim.InstRecord{OpCode: op, SrcReg: [2]int{src0, src1}, DestReg: dst}
}

// sliceTraceSource replays a fixed slice of records, matching a
// file-backed TraceSource's exhaustion behavior once the slice is spent.
type sliceTraceSource struct {
	records []procsim.InstRecord
	pos     int
}

func newSliceTraceSource(records ...procsim.InstRecord) *sliceTraceSource {
	return &sliceTraceSource{records: records}
}

func (s *sliceTraceSource) Next() (procsim.InstRecord, bool) {
	if s.pos >= len(s.records) {
		return procsim.InstRecord{}, false
	}

	r := s.records[s.pos]
	s.pos++

	return r, true
}
