package rx

// Entry is one element of a Seq, tagged with the process-unique
// identifier assigned when it was inserted. The identifier is stable for
// the entry's whole lifetime, across any number of later appends.
type Entry[T any] struct {
	id    ID
	Value T
}

// ID returns the entry's stable identifier.
func (e *Entry[T]) ID() ID {
	return e.id
}

// Seq is a reactive cell around an ordered sequence. It has the same
// tracking and dirtying contract as Value, at whole-cell grain: appends
// and Mutate dirty consumers, per-entry mutation via MutateAt does not.
type Seq[T any] struct {
	id         ID
	entries    []Entry[T]
	downstream edgeList
}

// NewSeq creates an empty sequence cell.
func NewSeq[T any]() *Seq[T] {
	return &Seq[T]{id: nextID()}
}

// ID returns the container's stable identifier.
func (s *Seq[T]) ID() ID {
	return s.id
}

// Len returns the number of entries without tracking.
func (s *Seq[T]) Len() int {
	return len(s.entries)
}

// Append assigns a fresh identifier to v, dirties consumers, and pushes
// the entry.
func (s *Seq[T]) Append(v T) {
	s.downstream.markDirty()
	s.entries = append(s.entries, Entry[T]{id: nextID(), Value: v})
}

// Get tracks and returns the value at index i.
func (s *Seq[T]) Get(ctx *Ctx, i int) T {
	s.downstream.track(ctx.active)
	return s.entries[i].Value
}

// Slice tracks and returns the underlying storage. The returned slice
// aliases the cell; callers that modify it through MutateAt or Mutate
// follow the same dirtying rules as any other access.
func (s *Seq[T]) Slice(ctx *Ctx) []Entry[T] {
	s.downstream.track(ctx.active)
	return s.entries
}

// EntryID returns the stable identifier of the entry at index i.
func (s *Seq[T]) EntryID(i int) ID {
	return s.entries[i].id
}

// MutateAt returns the value at index i for in-place modification
// without dirtying. Mutation dirties at whole-cell grain only; callers
// that need consumers invalidated go through Mutate or Append.
func (s *Seq[T]) MutateAt(i int) *T {
	return &s.entries[i].Value
}

// Mutate dirties every live consumer and returns the underlying storage
// for structural modification.
func (s *Seq[T]) Mutate() *[]Entry[T] {
	s.downstream.markDirty()
	return &s.entries
}

// Clone returns a copy of the sequence with fresh identifiers for the
// container and every entry, and an empty downstream list.
func (s *Seq[T]) Clone() *Seq[T] {
	clone := &Seq[T]{
		id:      nextID(),
		entries: make([]Entry[T], len(s.entries)),
	}
	for i, e := range s.entries {
		clone.entries[i] = Entry[T]{id: nextID(), Value: e.Value}
	}
	return clone
}
