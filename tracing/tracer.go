package tracing

// Tracer collects task lifecycle events reported through StartTask,
// StepTask and EndTask. A Tracer is not itself a sim.Hook: wrap it with
// NewTracerHook and attach the result to any NamedHookable with AcceptHook.
type Tracer interface {
	StartTask(task Task)
	StepTask(task Task)
	EndTask(task Task)
}
