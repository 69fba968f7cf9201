package hitproxy

import (
	"container/list"
	"sync"
)

// Queue is a thread-safe FIFO of custom events awaiting upload.
type Queue struct {
	mu   sync.Mutex
	list *list.List
}

// NewQueue creates and returns a new empty Queue.
func NewQueue() *Queue {
	return &Queue{list: list.New()}
}

// Enqueue adds an event to the end of the queue.
func (q *Queue) Enqueue(event CustomEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.list.PushBack(event)
}

// PushFront puts events back at the head of the queue, keeping their order.
func (q *Queue) PushFront(events []CustomEvent) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for i := len(events) - 1; i >= 0; i-- {
		q.list.PushFront(events[i])
	}
}

// IsEmpty reports whether the queue has no elements.
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.list.Len() == 0
}

// Len returns the number of events currently in the queue.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.list.Len()
}

// Drain removes and returns every queued event, preserving order.
func (q *Queue) Drain() []CustomEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	events := q.toSliceLocked()
	q.list.Init()
	return events
}

// ToSlice returns all events in the queue as a slice, preserving order.
func (q *Queue) ToSlice() []CustomEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.toSliceLocked()
}

func (q *Queue) toSliceLocked() []CustomEvent {
	events := make([]CustomEvent, 0, q.list.Len())
	for e := q.list.Front(); e != nil; e = e.Next() {
		events = append(events, e.Value.(CustomEvent))
	}
	return events
}
