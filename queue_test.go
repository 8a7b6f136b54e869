package wisp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventQueuePreservesInsertionOrder(t *testing.T) {
	q := NewEventQueue(0)
	a := QuitEvent{base: newBase()}
	b := TickEvent{base: newBase(), Number: 1}
	c := TickEvent{base: newBase(), Number: 2}

	q.Push(a)
	q.Push(b)
	q.Push(c)

	require.Equal(t, 3, q.Len())

	got, ok := q.Pop()
	require.True(t, ok)
	assert.Equal(t, a, got)

	got, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, b, got)

	got, ok = q.Pop()
	require.True(t, ok)
	assert.Equal(t, c, got)

	_, ok = q.Pop()
	assert.False(t, ok)
}

func TestEventQueueDropsOldestPastCapacity(t *testing.T) {
	q := NewEventQueue(4)
	events := make([]Event, 5)
	for i := range events {
		events[i] = TickEvent{base: newBase(), Number: uint64(i)}
		q.Push(events[i])
	}

	require.Equal(t, 4, q.Len())

	drained := q.DrainAll()
	require.Len(t, drained, 4)
	for i, ev := range drained {
		assert.Equal(t, events[i+1], ev, "expected [b,c,d,e] after dropping the oldest")
	}
}

func TestEventQueuePeekDoesNotRemove(t *testing.T) {
	q := NewEventQueue(0)
	q.Push(QuitEvent{base: newBase()})

	_, ok := q.Peek()
	require.True(t, ok)
	assert.Equal(t, 1, q.Len())
}

func TestEventQueueClear(t *testing.T) {
	q := NewEventQueue(0)
	q.Push(QuitEvent{base: newBase()})
	q.Push(QuitEvent{base: newBase()})

	q.Clear()

	assert.Equal(t, 0, q.Len())
}
