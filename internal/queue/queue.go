// Package queue implements a segmented FIFO used to buffer a link's
// incoming frames without repeatedly reallocating a single growing
// slice.
package queue

// Holder is a segmented FIFO queue of *T. Segments are allocated in
// fixed-size chunks and discarded once fully drained, so long-lived
// queues with high turnover do not retain one giant backing array.
type Holder[T any] struct {
	next *Holder[T]
	size int
	q    []*T
	h, t int
}

// NewHolder returns an empty queue whose segments hold up to size items.
func NewHolder[T any](size int) *Holder[T] {
	return &Holder[T]{size: size, q: make([]*T, size)}
}

// Enqueue adds item to the back of the queue.
func (h *Holder[T]) Enqueue(item T) {
	cur := h
	for cur.next != nil {
		cur = cur.next
	}
	if cur.t == cur.size {
		cur.next = NewHolder[T](cur.size)
		cur = cur.next
	}
	cur.q[cur.t] = &item
	cur.t++
}

// Dequeue removes and returns the item at the front of the queue, or nil
// if the queue is empty.
func (h *Holder[T]) Dequeue() *T {
	if h.h == h.t {
		if h.next == nil {
			return nil
		}
		*h = *h.next
		return h.Dequeue()
	}
	item := h.q[h.h]
	h.q[h.h] = nil
	h.h++
	return item
}

// Len returns the total number of items across all segments.
func (h *Holder[T]) Len() int {
	count := h.t - h.h
	for cur := h.next; cur != nil; cur = cur.next {
		count += cur.t - cur.h
	}
	return count
}
