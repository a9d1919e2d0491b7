package rx

import "sync/atomic"

// ID is a process-unique identifier for a reactive entity. IDs are
// monotonically assigned, never reused, and comparable with ==, which
// makes them suitable as map keys for user-side bookkeeping. They are
// meaningless outside the process that assigned them.
type ID uint64

// globalIDCounter is the source of unique IDs for sequence containers and
// their entries. The counter is atomic so that ID allocation stays sound
// even if a caller violates the package's single-goroutine contract; the
// graph structures themselves are not protected.
var globalIDCounter uint64

// nextID returns the next process-unique ID.
func nextID() ID {
	return ID(atomic.AddUint64(&globalIDCounter, 1))
}
