package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEnqueueDequeueOrder(t *testing.T) {
	q := NewHolder[int](2)
	q.Enqueue(1)
	q.Enqueue(2)
	q.Enqueue(3) // spills into a second segment

	require.Equal(t, 3, q.Len())
	require.Equal(t, 1, *q.Dequeue())
	require.Equal(t, 2, *q.Dequeue())
	require.Equal(t, 3, *q.Dequeue())
	require.Nil(t, q.Dequeue())
	require.Equal(t, 0, q.Len())
}

func TestDequeueEmpty(t *testing.T) {
	q := NewHolder[string](4)
	require.Nil(t, q.Dequeue())
}
