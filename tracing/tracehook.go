package tracing

import "github.com/sarchlab/procsim/sim"

// TracerHook adapts a Tracer into a sim.Hook, so it can be registered on any
// NamedHookable with AcceptHook.
type TracerHook struct {
	Tracer Tracer
}

// NewTracerHook wraps t as a sim.Hook.
func NewTracerHook(t Tracer) *TracerHook {
	return &TracerHook{Tracer: t}
}

// Func dispatches ctx to the wrapped Tracer's matching method.
func (h *TracerHook) Func(ctx sim.HookCtx) {
	task, ok := ctx.Item.(Task)
	if !ok {
		return
	}

	switch ctx.Pos {
	case HookPosTaskStart:
		h.Tracer.StartTask(task)
	case HookPosTaskStep:
		h.Tracer.StepTask(task)
	case HookPosTaskEnd:
		h.Tracer.EndTask(task)
	}
}
