package rx

import "weak"

// Dependent is the identity of a consumer in the dependency graph. Every
// memoized function and effect owns one, and the application root owns a
// toplevel one. Sources reference a Dependent only weakly, so back-edges
// never extend a consumer's lifetime.
type Dependent struct {
	// generation counts re-runs. It is bumped as each run starts, so a
	// run whose closure panics still counts. Back-edges tagged with an
	// older generation are stale: the consumer re-ran without
	// re-registering and no longer depends on that source.
	generation uint64

	// dirty is set when any source this consumer read has changed since
	// its last run. Cleared when the consumer re-runs.
	dirty bool

	// downstream lists the consumers that read this dependent's output.
	downstream edgeList
}

// Toplevel constructs the Dependent owned by the application root. It
// starts dirty at generation zero so the first evaluation always runs.
func Toplevel() *Dependent {
	return &Dependent{dirty: true}
}

// Ctx returns a tracking context naming d as the active consumer.
func (d *Dependent) Ctx() *Ctx {
	return &Ctx{active: d}
}

// Generation returns the number of times this consumer has re-run.
func (d *Dependent) Generation() uint64 {
	return d.generation
}

// Dirty reports whether any of this consumer's inputs changed since its
// last run.
func (d *Dependent) Dirty() bool {
	return d.dirty
}

// Ctx is the ephemeral tracking context threaded through every reactive
// read. It names the consumer currently being evaluated; each read
// registers that consumer with the source being read.
type Ctx struct {
	active *Dependent
}

// backEdge is one entry in a source's downstream list: a weak reference
// to a consumer, tagged with the consumer's generation at link time.
type backEdge struct {
	gen uint64
	dep weak.Pointer[Dependent]
}

// edgeList is the downstream list shared by every source kind. Expired
// and stale entries are purged lazily on traversal; no eager unsubscribe
// pass exists anywhere in the runtime.
type edgeList struct {
	edges []backEdge
}

// track ensures active appears in the list tagged with its current
// generation, compacting out entries whose consumer has been collected.
func (l *edgeList) track(active *Dependent) {
	found := false
	kept := l.edges[:0]
	for _, e := range l.edges {
		d := e.dep.Value()
		if d == nil {
			continue
		}
		if d == active {
			e.gen = active.generation
			found = true
		}
		kept = append(kept, e)
	}
	clear(l.edges[len(kept):])
	l.edges = kept

	if !found {
		l.edges = append(l.edges, backEdge{gen: active.generation, dep: weak.Make(active)})
	}
}

// markDirty walks the list, marking live and still-current consumers
// dirty and recursing into their own downstream lists. Entries whose
// weak reference expired or whose tagged generation is older than the
// consumer's current one are dropped.
//
// The walk finishes compacting this list before recursing, so a
// transitive pass never re-enters a list mid-iteration. A consumer that
// is already dirty is kept but not descended into: its own downstream was
// dirtied when it was, which is also what terminates marking on cyclic
// consumer graphs.
func (l *edgeList) markDirty() {
	kept := l.edges[:0]
	var next []*Dependent
	for _, e := range l.edges {
		d := e.dep.Value()
		if d == nil {
			continue
		}
		if d.generation > e.gen {
			continue
		}
		kept = append(kept, e)
		if !d.dirty {
			d.dirty = true
			next = append(next, d)
		}
	}
	clear(l.edges[len(kept):])
	l.edges = kept

	for _, d := range next {
		d.downstream.markDirty()
	}
}
