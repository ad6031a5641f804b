package procsim

import (
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/sarchlab/procsim/sim"
	"github.com/sarchlab/procsim/tracing"
)

// Controller drives one simulated cycle at a time, invoking the five
// pipeline stages in reverse order: state_update, execute, schedule,
// dispatch, fetch. It owns every subsystem so no stage's state can be
// reentered from outside a single Tick.
type Controller struct {
	sim.HookableBase

	// mu guards every field below against concurrent reads from Snapshot
	// while Run drives Tick from another goroutine (the monitor server's
	// use case).
	mu sync.Mutex

	dq *dispatchQueue
	rs *reservationStation

	fetch    *fetchStage
	dispatch *dispatchStage
	schedule *scheduleStage
	execute  *executeStage
	state    *stateUpdateStage

	fus     *funcUnits
	bus     *resultBus
	history *broadcastHistory

	cycle       int64
	retiredLog  []*Inst
	stallCycles int64
	firedLast   int

	// DebugLog, when set, receives one INST/FETCH/DISP/SCHED/EXEC/STATE row
	// per retired instruction as it retires.
	DebugLog io.Writer
}

var _ sim.Ticker = (*Controller)(nil)

// Name identifies the controller for hook and trace purposes.
func (c *Controller) Name() string { return "Controller" }

// AcceptRSHook registers hook to observe reservation station occupancy
// changes (sim.HookPosBufPush/HookPosBufPop), the way any other
// sim.Hookable in this codebase accepts an instrumentation hook.
func (c *Controller) AcceptRSHook(hook sim.Hook) { c.rs.AcceptHook(hook) }

// AcceptResultBusHook registers hook to observe result bus occupancy
// changes.
func (c *Controller) AcceptResultBusHook(hook sim.Hook) { c.bus.AcceptHook(hook) }

// Cycle returns the most recently completed cycle number.
func (c *Controller) Cycle() int64 { return c.cycle }

// RetiredLog returns every instruction retired so far, in ascending tag
// order (invariant I5), regardless of the order in which they retired.
func (c *Controller) RetiredLog() []*Inst {
	c.mu.Lock()
	defer c.mu.Unlock()

	log := append([]*Inst(nil), c.retiredLog...)
	sort.Slice(log, func(i, j int) bool { return log[i].Tag < log[j].Tag })

	return log
}

// Snapshot is a point-in-time view of the controller's progress, safe to
// read from a goroutine other than the one driving Run/Tick.
type Snapshot struct {
	Cycle              int64
	DispatchQueueSize  int
	ReservationStation int
	RetiredCount       int
	BusyFUs            int
	ResultBusPending   int
}

// Snapshot reports the controller's current state under lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Cycle:              c.cycle,
		DispatchQueueSize:  c.dq.size(),
		ReservationStation: c.rs.len(),
		RetiredCount:       len(c.retiredLog),
		BusyFUs:            c.fus.pool(Class0).busyCount() + c.fus.pool(Class1).busyCount() + c.fus.pool(Class2).busyCount(),
		ResultBusPending:   c.bus.len(),
	}
}

// done reports whether the trace is exhausted and every subsystem is
// empty: the controller's termination condition.
func (c *Controller) done() bool {
	return c.fetch.exhausted &&
		c.dq.size() == 0 &&
		c.rs.len() == 0 &&
		c.bus.len() == 0 &&
		c.fus.pool(Class0).busyCount() == 0 &&
		c.fus.pool(Class1).busyCount() == 0 &&
		c.fus.pool(Class2).busyCount() == 0
}

// Tick advances the simulation by one cycle and returns true, or returns
// false without advancing once the controller has terminated. A cycle in
// which no stage made progress still returns true; such cycles are counted
// separately for the stall guard.
func (c *Controller) Tick() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.done() {
		return false
	}

	c.cycle++

	// Snapshotted before state_update runs, so retirement this cycle frees
	// slots visible only to next cycle's dispatch: the half-cycle rule.
	slotsFreeBegin := c.rs.freeSlots()

	retired := c.state.run(c.cycle, c.rs)
	exec := c.execute.run(c.cycle, c.rs)
	c.firedLast = exec.fired
	c.schedule.run(c.rs)
	admitted := c.dispatch.run(c.cycle, slotsFreeBegin, c.dq, c.rs)
	fetched := c.fetch.run(c.cycle, c.dq)

	for _, inst := range fetched {
		tracing.StartTask(fmt.Sprintf("inst-%d", inst.Tag), "", c, "inst", "fetch", inst.Class)
	}

	for _, inst := range retired {
		c.retiredLog = append(c.retiredLog, inst)
		tracing.EndTask(fmt.Sprintf("inst-%d", inst.Tag), c)

		if c.DebugLog != nil {
			fmt.Fprintf(c.DebugLog, "%d\t%d\t%d\t%d\t%d\t%d\n",
				inst.Tag, inst.FetchCycle, inst.DispatchCycle,
				inst.ScheduleCycle, inst.ExecuteCycle, inst.StateUpdateCycle)
		}
	}

	// Progress means at least one of {dispatch admits, fire occurs,
	// broadcast occurs, retirement occurs, fetch supplies new work}
	// happened this cycle.
	if len(retired) > 0 || exec.fired > 0 || exec.broadcast > 0 || admitted > 0 || len(fetched) > 0 {
		c.stallCycles = 0
	} else {
		c.stallCycles++
	}

	return true
}

// Run executes cycles until termination, accumulating stats into the
// given Statistics record, and returns a *StallError if no forward
// progress is made for maxStallCycles cycles in a row.
func (c *Controller) Run(stats *Statistics) error {
	for {
		retiredBefore := len(c.retiredLog)

		if !c.Tick() {
			break
		}

		stats.observeCycle(c.firedLast, c.dq.size())
		stats.observeRetirements(len(c.retiredLog) - retiredBefore)

		if c.stallCycles >= maxStallCycles {
			return c.stallError()
		}
	}

	stats.finalize()

	return nil
}

func (c *Controller) stallError() *StallError {
	var stuck []uint64
	c.rs.each(func(inst *Inst) {
		if len(stuck) < 8 {
			stuck = append(stuck, inst.Tag)
		}
	})

	return &StallError{
		Cycle:      c.cycle,
		DQSize:     c.dq.size(),
		RSSize:     c.rs.len(),
		BusySlots:  c.fus.pool(Class0).busyCount() + c.fus.pool(Class1).busyCount() + c.fus.pool(Class2).busyCount(),
		ResultBusN: c.bus.len(),
		StuckTags:  stuck,
	}
}
