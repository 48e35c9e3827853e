package buffer

import "sync"

// Ring is a bounded append-only buffer. When full, appending evicts the
// oldest element. Capacity is fixed at construction.
//
// Ring is safe for concurrent use. Append and the read methods hold the
// lock only for the duration of a copy, so ingestion never blocks behind
// a long-running reader.
type Ring[T any] struct {
	mu    sync.Mutex
	items []T
	head  int // index of the oldest element
	size  int
}

// New creates a Ring holding at most capacity elements.
// A capacity below 1 is treated as 1.
func New[T any](capacity int) *Ring[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Ring[T]{items: make([]T, capacity)}
}

// Append adds item at the tail, evicting the oldest element if the buffer
// is full. Append always succeeds.
func (r *Ring[T]) Append(item T) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.size < len(r.items) {
		r.items[(r.head+r.size)%len(r.items)] = item
		r.size++
		return
	}
	// Full: overwrite the head slot and advance.
	r.items[r.head] = item
	r.head = (r.head + 1) % len(r.items)
}

// Snapshot returns a copy of the buffered elements in insertion order.
// The returned slice is independent of the buffer; later appends do not
// affect it.
func (r *Ring[T]) Snapshot() []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.copyLast(r.size)
}

// RecentWindow returns a copy of the last n elements in insertion order,
// or all elements if the buffer holds fewer than n.
func (r *Ring[T]) RecentWindow(n int) []T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if n > r.size {
		n = r.size
	}
	if n < 0 {
		n = 0
	}
	return r.copyLast(n)
}

// Len returns the number of buffered elements.
func (r *Ring[T]) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int {
	return len(r.items)
}

// copyLast copies the newest n elements in order. Caller holds the lock.
func (r *Ring[T]) copyLast(n int) []T {
	out := make([]T, n)
	start := r.head + r.size - n
	for i := 0; i < n; i++ {
		out[i] = r.items[(start+i)%len(r.items)]
	}
	return out
}
