package rx

// Func is a memoized function node: a cached (input, output) pair plus a
// Dependent. Call re-runs the user closure only when the node is dirty,
// when the input differs from the last one, or when no output is cached;
// otherwise the cached output is returned without invoking the closure.
//
// Input comparison is deep structural equality by default (see
// WithEquals). Inputs containing NaN-like values compare unequal to
// themselves and cause a re-run on every call; choosing an equality
// relation that handles such values is up to the input type.
type Func[I, O any] struct {
	dep *Dependent

	lastInput I
	hasInput  bool

	output    O
	hasOutput bool

	// running guards the closure slot; set while the closure executes.
	// Doubles as the cycle detector: a recursive re-entry of the same
	// node observes it and takes the degraded no-value path.
	running bool

	equal func(I, I) bool
}

// NewFunc creates an empty memoized function node: dirty, no cached
// input, no output.
func NewFunc[I, O any]() *Func[I, O] {
	return &Func[I, O]{dep: &Dependent{dirty: true}}
}

// WithEquals configures a custom input equality function.
func (f *Func[I, O]) WithEquals(fn func(I, I) bool) *Func[I, O] {
	f.equal = fn
	return f
}

// Dep returns the node's Dependent for diagnostic inspection.
func (f *Func[I, O]) Dep() *Dependent {
	return f.dep
}

// Call registers the caller as a consumer of this node's output, decides
// whether to re-run, and returns the (possibly cached) output.
//
// The second return is false only on recursive re-entry of the same node:
// the closure is already executing further up the stack, so the entrant
// returns no value instead of re-running. The caller's dependency has
// been recorded by then, so a change that breaks the cycle still
// invalidates every participant.
//
// On a re-run the node's dirty flag is cleared and its generation bumped
// before the closure executes; every source the closure no longer reads
// retires its back-edge on its next dirtying walk. If the closure panics
// the input has been retained but no output cached, so the next Call
// re-runs.
func (f *Func[I, O]) Call(ctx *Ctx, input I, fn func(*Ctx, I) O) (O, bool) {
	f.dep.downstream.track(ctx.active)

	if f.running {
		var zero O
		return zero, false
	}

	if f.dep.dirty || !f.hasInput || !f.hasOutput || !f.equals(f.lastInput, input) {
		f.lastInput = input
		f.hasInput = true

		// Bump before the closure runs so that sources re-read by the
		// new run register against the new generation.
		f.dep.dirty = false
		f.dep.generation++

		f.running = true
		defer func() { f.running = false }()

		f.hasOutput = false
		f.output = fn(&Ctx{active: f.dep}, input)
		f.hasOutput = true
	}

	return f.output, true
}

func (f *Func[I, O]) equals(a, b I) bool {
	if f.equal != nil {
		return f.equal(a, b)
	}
	return defaultEquals(a, b)
}
