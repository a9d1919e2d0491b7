package rx

// Effect is a side-effecting node keyed only on dirtiness: Call runs the
// closure if any transitive input changed since the last run, and is a
// no-op otherwise. Useful as a terminal node that performs I/O (drawing,
// writing) when upstream state has changed.
type Effect struct {
	dep     *Dependent
	running bool
}

// NewEffect creates an effect node that is initially dirty, so its first
// Call always runs.
func NewEffect() *Effect {
	return &Effect{dep: &Dependent{dirty: true}}
}

// Dep returns the node's Dependent for diagnostic inspection.
func (e *Effect) Dep() *Dependent {
	return e.dep
}

// Call registers the caller as a consumer, then runs fn with a fresh
// tracking context if the node is dirty. Reports whether the closure ran.
// Recursive re-entry of the same node is a no-op, like a clean node.
func (e *Effect) Call(ctx *Ctx, fn func(*Ctx)) bool {
	e.dep.downstream.track(ctx.active)

	if e.running || !e.dep.dirty {
		return false
	}

	e.dep.dirty = false
	e.dep.generation++

	e.running = true
	defer func() { e.running = false }()

	fn(&Ctx{active: e.dep})
	return true
}
