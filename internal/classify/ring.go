package classify

// ring is a fixed-capacity FIFO over a preallocated slice. Pushing into a
// full ring evicts the oldest element; the buffer never grows.
type ring[T any] struct {
	buf  []T
	head int // index of the oldest element
	size int
}

func newRing[T any](capacity int) *ring[T] {
	return &ring[T]{buf: make([]T, capacity)}
}

func (r *ring[T]) push(v T) {
	if r.size < len(r.buf) {
		r.buf[(r.head+r.size)%len(r.buf)] = v
		r.size++
		return
	}
	r.buf[r.head] = v
	r.head = (r.head + 1) % len(r.buf)
}

func (r *ring[T]) len() int {
	return r.size
}

// last returns up to n of the most recent elements, oldest first.
func (r *ring[T]) last(n int) []T {
	if n > r.size {
		n = r.size
	}
	out := make([]T, 0, n)
	for i := r.size - n; i < r.size; i++ {
		out = append(out, r.buf[(r.head+i)%len(r.buf)])
	}
	return out
}

// all returns every buffered element, oldest first.
func (r *ring[T]) all() []T {
	return r.last(r.size)
}

// newest returns the most recently pushed element.
func (r *ring[T]) newest() (T, bool) {
	var zero T
	if r.size == 0 {
		return zero, false
	}
	return r.buf[(r.head+r.size-1)%len(r.buf)], true
}

func (r *ring[T]) reset() {
	r.head = 0
	r.size = 0
}
