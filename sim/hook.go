package sim

// HookPos names the site at which a hook fires.
type HookPos struct {
	Name string
}

// Hook positions invoked by a Resource.
var (
	// HookPosEnqueue fires after a request joins the wait queue.
	HookPosEnqueue = &HookPos{Name: "Enqueue"}
	// HookPosGrant fires after a slot is handed to a request, whether it
	// waited or not.
	HookPosGrant = &HookPos{Name: "Grant"}
	// HookPosRelease fires after a held slot is freed, before the slot is
	// passed on to the next waiter.
	HookPosRelease = &HookPos{Name: "Release"}
	// HookPosWithdraw fires after a waiting request leaves the queue unserved.
	HookPosWithdraw = &HookPos{Name: "Withdraw"}
)

// ResourceState is the snapshot passed as HookCtx.Detail by a Resource.
type ResourceState struct {
	QueueLen int
	Held     int
	Capacity int
}

// HookCtx holds everything a hook may want to know about the site that
// triggered it.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Now    float64
	Item   interface{}
	Detail interface{}
}

// Hookable is an object that accepts hooks.
type Hookable interface {
	AcceptHook(hook Hook)
}

// Hook is invoked by a Hookable at its hook positions.
type Hook interface {
	Func(ctx HookCtx)
}

// HookFunc adapts a plain function to the Hook interface.
type HookFunc func(ctx HookCtx)

// Func calls f(ctx).
func (f HookFunc) Func(ctx HookCtx) {
	f(ctx)
}

// HookableBase implements Hookable for embedding.
type HookableBase struct {
	Hooks []Hook
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.Hooks = append(h.Hooks, hook)
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.Hooks {
		hook.Func(ctx)
	}
}
