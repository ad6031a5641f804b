// Package tracing lets any sim.Hookable domain report the lifecycle of a
// task — an instruction moving through the pipeline, in procsim's case —
// without coupling the domain's algorithm to a specific tracer
// implementation.
package tracing

import "github.com/sarchlab/procsim/sim"

// TaskStep is a milestone reached while processing a task.
type TaskStep struct {
	Time sim.VTimeInSec
	What string
}

// Task describes one traceable unit of work and its lifecycle so far.
type Task struct {
	ID        string
	ParentID  string
	Kind      string
	What      string
	Where     string
	StartTime sim.VTimeInSec
	EndTime   sim.VTimeInSec
	Steps     []TaskStep
	Detail    interface{}
}

// NamedHookable is something both nameable and hookable — the minimum a
// domain needs to be traced.
type NamedHookable interface {
	sim.Named
	sim.Hookable
}
