package sequence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriorityQueueOrder(t *testing.T) {
	pq := NewPriorityQueue(func(a, b int) bool { return a < b })
	for _, v := range []int{5, 1, 4, 2, 3} {
		pq.Enqueue(v)
	}
	require.Equal(t, 5, pq.Len())

	top, ok := pq.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, top)

	var got []int
	for !pq.IsEmpty() {
		v, _ := pq.Dequeue()
		got = append(got, v)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 5}, got)

	_, ok = pq.Dequeue()
	assert.False(t, ok)
}

func TestPriorityQueueUpdate(t *testing.T) {
	pq := NewPriorityQueue(func(a, b int) bool { return a < b })
	pq.Enqueue(10)
	item := pq.Enqueue(20)
	pq.Update(item, 1)

	v, _ := pq.Peek()
	assert.Equal(t, 1, v)
}

func TestWindowEviction(t *testing.T) {
	w := NewWindow[int](2)
	_, full := w.Oldest()
	assert.False(t, full)

	_, evicted := w.Push(1)
	assert.False(t, evicted)
	w.Push(2)
	assert.True(t, w.Full())

	old, evicted := w.Push(3)
	require.True(t, evicted)
	assert.Equal(t, 1, old)
	assert.Equal(t, []int{2, 3}, w.Slice())

	o, _ := w.Oldest()
	n, _ := w.Newest()
	assert.Equal(t, 2, o)
	assert.Equal(t, 3, n)

	w.Reset()
	assert.Equal(t, 0, w.Len())
	assert.Equal(t, 2, w.Cap())
}
