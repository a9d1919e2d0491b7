package rx

// Value is a reactive cell around a single owned value. Reads record a
// dependency for the active consumer; mutation marks every live consumer
// dirty, transitively.
type Value[T any] struct {
	value      T
	downstream edgeList
}

// NewValue creates a cell holding v with no consumers.
func NewValue[T any](v T) *Value[T] {
	return &Value[T]{value: v}
}

// Read returns the stored value and tracks: the active consumer is
// registered in this cell's downstream list at its current generation.
func (v *Value[T]) Read(ctx *Ctx) T {
	v.downstream.track(ctx.active)
	return v.value
}

// ReadUntracked returns the stored value without touching the downstream
// list. For diagnostic or deliberately decoupled reads.
func (v *Value[T]) ReadUntracked() T {
	return v.value
}

// Mutate dirties every live, still-current consumer and returns the
// stored value for in-place modification. Expired and stale back-edges
// are purged during the walk.
func (v *Value[T]) Mutate() *T {
	v.downstream.markDirty()
	return &v.value
}

// Set replaces the stored value. Shorthand for *v.Mutate() = value.
func (v *Value[T]) Set(value T) {
	*v.Mutate() = value
}
