package procsim

// Statistics is the outbound statistics record, accumulated once per
// simulated cycle and finalized at termination.
type Statistics struct {
	AvgInstRetired     float64
	AvgInstFired       float64
	AvgDispSize        float64
	MaxDispSize        int
	RetiredInstruction int
	CycleCount         int64

	sumFired int64
	sumDispQ int64
}

func (s *Statistics) observeCycle(fired int, dispQLen int) {
	s.CycleCount++
	s.sumFired += int64(fired)
	s.sumDispQ += int64(dispQLen)

	if dispQLen > s.MaxDispSize {
		s.MaxDispSize = dispQLen
	}
}

func (s *Statistics) observeRetirements(n int) {
	s.RetiredInstruction += n
}

func (s *Statistics) finalize() {
	if s.CycleCount == 0 {
		return
	}

	s.AvgInstRetired = float64(s.RetiredInstruction) / float64(s.CycleCount)
	s.AvgInstFired = float64(s.sumFired) / float64(s.CycleCount)
	s.AvgDispSize = float64(s.sumDispQ) / float64(s.CycleCount)
}
