package sequence

// Ring is a bounded FIFO. Pushing onto a full ring evicts the oldest value.
// It is not safe for concurrent use.
type Ring[T any] struct {
	items []T
	head  int
	size  int
}

// NewRing creates a ring holding at most capacity values. capacity must be positive.
func NewRing[T any](capacity int) *Ring[T] {
	if capacity <= 0 {
		panic("sequence: ring capacity must be positive")
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Push appends v and reports whether an old value was evicted.
func (r *Ring[T]) Push(v T) (evicted bool) {
	idx := (r.head + r.size) % len(r.items)
	r.items[idx] = v
	if r.size == len(r.items) {
		r.head = (r.head + 1) % len(r.items)
		return true
	}
	r.size++
	return false
}

// Len is the number of stored values.
func (r *Ring[T]) Len() int { return r.size }

// Cap is the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.items) }

// At returns the i-th oldest value.
func (r *Ring[T]) At(i int) (T, bool) {
	if i < 0 || i >= r.size {
		var zero T
		return zero, false
	}
	return r.items[(r.head+i)%len(r.items)], true
}

// Last returns the most recent value.
func (r *Ring[T]) Last() (T, bool) {
	return r.At(r.size - 1)
}

// Slice copies the values out, oldest first.
func (r *Ring[T]) Slice() []T {
	out := make([]T, r.size)
	for i := range out {
		out[i] = r.items[(r.head+i)%len(r.items)]
	}
	return out
}

// Reset drops every value.
func (r *Ring[T]) Reset() {
	clear(r.items)
	r.head, r.size = 0, 0
}
