package procsim

import (
	"errors"
	"fmt"
)

// ErrTraceOpen is returned when the trace source cannot be opened; the
// core never begins simulating in that case.
var ErrTraceOpen = errors.New("procsim: trace source failed to open")

// maxStallCycles bounds how long the simulator will run without any
// forward progress before concluding it has found a bug rather than a
// legitimate stall.
const maxStallCycles = 1_000_000

// StallError reports that no retirement or forward motion happened for
// maxStallCycles in a row, along with a snapshot useful for diagnosing
// why.
type StallError struct {
	Cycle      int64
	DQSize     int
	RSSize     int
	BusySlots  int
	ResultBusN int
	StuckTags  []uint64
}

func (e *StallError) Error() string {
	return fmt.Sprintf(
		"procsim: no progress for %d cycles at cycle %d (dq=%d rs=%d busy_fus=%d result_bus=%d stuck=%v)",
		maxStallCycles, e.Cycle, e.DQSize, e.RSSize, e.BusySlots, e.ResultBusN, e.StuckTags,
	)
}
