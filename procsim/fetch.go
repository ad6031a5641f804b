package procsim

// TraceSource is the pull interface the fetch stage reads from. Next
// returns false once the trace is exhausted, mirroring the
// read_instruction contract: negative register indices mean "no
// register", and an op code of -1 means "use class 1".
type TraceSource interface {
	Next() (rec InstRecord, ok bool)
}

// InstRecord is one decoded instruction as read from the trace source,
// before tag assignment.
type InstRecord struct {
	InstructionAddress uint64 // informational only, not used semantically
	OpCode             int
	SrcReg             [2]int
	DestReg            int
}

func normalizeReg(r int) int {
	if r < 0 || r >= numRegs {
		return NoReg
	}

	return r
}

// fetchStage pulls up to width instructions per cycle from src into dq,
// assigning monotonically increasing tags. It never blocks: the DQ has no
// capacity bound.
type fetchStage struct {
	src       TraceSource
	width     int
	nextTag   uint64
	exhausted bool
}

func newFetchStage(src TraceSource, width int) *fetchStage {
	return &fetchStage{src: src, width: width, nextTag: 1}
}

// run pulls up to f.width instructions and returns the ones it fetched.
func (f *fetchStage) run(cycle int64, dq *dispatchQueue) []*Inst {
	if f.exhausted {
		return nil
	}

	var fetched []*Inst

	for i := 0; i < f.width; i++ {
		rec, ok := f.src.Next()
		if !ok {
			f.exhausted = true
			return fetched
		}

		inst := &Inst{
			Tag:           f.nextTag,
			Class:         coerceClass(rec.OpCode),
			Src:           [2]int{normalizeReg(rec.SrcReg[0]), normalizeReg(rec.SrcReg[1])},
			Dst:           normalizeReg(rec.DestReg),
			FetchCycle:    cycle,
			DispatchCycle: cycle + 1,
		}
		f.nextTag++

		dq.push(inst)
		fetched = append(fetched, inst)
	}

	return fetched
}
