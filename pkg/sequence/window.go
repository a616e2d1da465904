package sequence

// Window is a bounded FIFO. Pushing into a full window evicts the oldest
// value. The zero value is not usable; call NewWindow.
type Window[T any] struct {
	data  []T
	start int
	size  int
}

// NewWindow creates a window holding at most capacity values.
// A capacity below 1 is raised to 1.
func NewWindow[T any](capacity int) *Window[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Window[T]{data: make([]T, capacity)}
}

// Push appends v, returning the evicted value when the window was full.
func (w *Window[T]) Push(v T) (evicted T, ok bool) {
	c := len(w.data)
	if w.size < c {
		w.data[(w.start+w.size)%c] = v
		w.size++
		return evicted, false
	}
	evicted = w.data[w.start]
	w.data[w.start] = v
	w.start = (w.start + 1) % c
	return evicted, true
}

// At returns the i-th value, oldest first.
func (w *Window[T]) At(i int) (T, bool) {
	if i < 0 || i >= w.size {
		var zero T
		return zero, false
	}
	return w.data[(w.start+i)%len(w.data)], true
}

// Oldest is At(0).
func (w *Window[T]) Oldest() (T, bool) { return w.At(0) }

// Newest is the most recently pushed value.
func (w *Window[T]) Newest() (T, bool) { return w.At(w.size - 1) }

func (w *Window[T]) Len() int { return w.size }

func (w *Window[T]) Cap() int { return len(w.data) }

func (w *Window[T]) Full() bool { return w.size == len(w.data) }

// Slice copies the contents, oldest first.
func (w *Window[T]) Slice() []T {
	out := make([]T, w.size)
	for i := range out {
		out[i] = w.data[(w.start+i)%len(w.data)]
	}
	return out
}

func (w *Window[T]) Reset() {
	var zero T
	for i := range w.data {
		w.data[i] = zero
	}
	w.start, w.size = 0, 0
}
