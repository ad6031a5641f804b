package tracing

import "github.com/sarchlab/procsim/sim"

// HookPosTaskStart marks a task beginning.
var HookPosTaskStart = &sim.HookPos{Name: "HookPosTaskStart"}

// HookPosTaskStep marks a task reaching a milestone.
var HookPosTaskStep = &sim.HookPos{Name: "HookPosTaskStep"}

// HookPosTaskEnd marks a task finishing.
var HookPosTaskEnd = &sim.HookPos{Name: "HookPosTaskEnd"}

// StartTask notifies domain's hooks that a task has started. It is a no-op
// when nothing is listening, so call sites can call it unconditionally on
// every hot-path transition without worrying about allocation cost.
func StartTask(id, parentID string, domain NamedHookable, kind, what string, detail interface{}) {
	if domain.NumHooks() == 0 {
		return
	}

	requireNonEmpty(id, kind, what)

	task := Task{ID: id, ParentID: parentID, Kind: kind, What: what, Where: domain.Name(), Detail: detail}
	domain.InvokeHook(sim.HookCtx{Domain: domain, Pos: HookPosTaskStart, Item: task})
}

// StepTask notifies domain's hooks that a task reached a milestone.
func StepTask(id string, domain NamedHookable, what string) {
	if domain.NumHooks() == 0 {
		return
	}

	task := Task{ID: id, Steps: []TaskStep{{What: what}}}
	domain.InvokeHook(sim.HookCtx{Domain: domain, Pos: HookPosTaskStep, Item: task})
}

// EndTask notifies domain's hooks that a task has finished.
func EndTask(id string, domain NamedHookable) {
	if domain.NumHooks() == 0 {
		return
	}

	domain.InvokeHook(sim.HookCtx{Domain: domain, Pos: HookPosTaskEnd, Item: Task{ID: id}})
}

func requireNonEmpty(id, kind, what string) {
	if id == "" {
		panic("task id must not be empty")
	}

	if kind == "" {
		panic("task kind must not be empty")
	}

	if what == "" {
		panic("task what must not be empty")
	}
}
