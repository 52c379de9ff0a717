package queue

// Queue is a FIFO of candidates tried in order.
type Queue[T any] struct {
	items []T
}

// New returns a queue holding items in the given order.
func New[T any](items ...T) *Queue[T] {
	q := &Queue[T]{items: make([]T, 0, len(items))}
	for _, it := range items {
		q.Enqueue(it)
	}
	return q
}

func (q *Queue[T]) Enqueue(item T) {
	q.items = append(q.items, item)
}

// Dequeue removes and returns the front element.
// The boolean is false if the queue was empty.
func (q *Queue[T]) Dequeue() (T, bool) {
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}
