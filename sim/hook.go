// Package sim provides the small substrate procsim's stages and buffers are
// built on: virtual time, a hook mechanism for instrumentation, and the
// Ticker convention used throughout this codebase.
package sim

// Named is anything that has a stable, human-readable name.
type Named interface {
	Name() string
}

// HookPos identifies where in an object's lifecycle a hook fires.
type HookPos struct {
	Name string
}

// HookCtx carries the information about the site a hook fired at.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable is an object that other code can attach Hooks to.
type Hookable interface {
	AcceptHook(hook Hook)
	NumHooks() int
	InvokeHook(ctx HookCtx)
}

// Hook is a short piece of program invoked by a Hookable at a HookPos.
type Hook interface {
	Func(ctx HookCtx)
}

// HookableBase provides a default Hookable implementation to embed.
type HookableBase struct {
	hooks []Hook
}

// NewHookableBase creates an empty HookableBase.
func NewHookableBase() *HookableBase {
	return &HookableBase{}
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.hooks = append(h.hooks, hook)
}

// NumHooks returns the number of hooks currently registered. Callers use
// this to skip building a HookCtx entirely on the common no-observer path.
func (h *HookableBase) NumHooks() int {
	return len(h.hooks)
}

// InvokeHook runs every registered hook with the given context.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hooks {
		hook.Func(ctx)
	}
}
