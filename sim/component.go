package sim

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is an element that is being simulated. It owns its events and
// can be observed through hooks.
type Component interface {
	Named
	Handler
	Hookable
}

// NamedHookable represent something that both has a name and can be hooked.
type NamedHookable interface {
	Named
	Hookable
	InvokeHook(HookCtx)
}
