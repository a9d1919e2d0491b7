// Package rx provides the reactive memoization core for fluorine.
//
// The runtime builds dynamic dataflow graphs: leaf cells hold mutable
// values, memoized functions re-run only when a value they actually read
// last time has since changed, and side effects re-execute on demand when
// any transitive input is dirty. Dependencies are discovered by observing
// which cells a closure reads during its execution; nothing is declared
// up front, and the dependency set may differ between runs.
//
// # Core Types
//
// Value[T] is a reactive value cell:
//
//	a := rx.NewValue(1.0)
//	v := a.Read(ctx)   // read and track the active consumer
//	*a.Mutate() = 3.0  // write and dirty every consumer
//
// Func[I, O] is a memoized function keyed on dirtiness and input equality:
//
//	f := rx.NewFunc[float64, float64]()
//	out, ok := f.Call(ctx, width, func(ctx *rx.Ctx, width float64) float64 {
//	    return a.Read(ctx) / width
//	})
//
// Effect is a terminal node that runs its closure only when dirty:
//
//	e := rx.NewEffect()
//	ran := e.Call(ctx, func(ctx *rx.Ctx) { repaint(a.Read(ctx)) })
//
// Seq[T] is an ordered sequence cell whose entries carry process-unique
// stable identifiers.
//
// # Tracking Context
//
// Every reactive read takes a *Ctx naming the consumer currently being
// evaluated. The application root obtains one from a toplevel Dependent:
//
//	top := rx.Toplevel()
//	out, _ := f.Call(top.Ctx(), width, compute)
//
// # Invalidation
//
// Sources hold weak back-references to their consumers, tagged with the
// consumer's generation at link time. A re-run bumps the generation, which
// logically retires every back-edge the new run did not re-register; stale
// and expired edges are purged lazily on the next traversal. Mutation
// marks live, current consumers dirty depth-first. There is no scheduler:
// re-runs happen on the next Call.
//
// # Thread Safety
//
// The package is deliberately not safe for concurrent use. A graph and
// every node in it must be confined to a single goroutine; callers that
// share a graph across connections serialize access themselves.
package rx
