package reconcile

import "sync"

// TaskQueue is a thread-safe unbounded FIFO of reconciliation tasks,
// backed by a ring buffer that doubles its capacity when it reaches 70%
// full. Push never blocks and never drops.
type TaskQueue struct {
	mu       sync.Mutex
	buf      []Task
	head     int // read position
	tail     int // write position
	count    int
	capacity int

	// Stats
	totalPushed int64
	totalPopped int64
	resizeCount int
}

// NewTaskQueue creates a queue with the given initial capacity.
func NewTaskQueue(initialCapacity int) *TaskQueue {
	if initialCapacity < 1 {
		initialCapacity = 1
	}
	return &TaskQueue{
		buf:      make([]Task, initialCapacity),
		capacity: initialCapacity,
	}
}

// Push appends a task. Grows the ring if at 70% capacity.
func (q *TaskQueue) Push(t Task) {
	q.mu.Lock()
	defer q.mu.Unlock()

	threshold := (q.capacity * 70) / 100
	if threshold < 1 {
		threshold = 1
	}
	if q.count+1 >= threshold {
		q.grow()
	}

	q.buf[q.tail] = t
	q.tail = (q.tail + 1) % q.capacity
	q.count++
	q.totalPushed++
}

// TryPop removes and returns the oldest task without blocking.
func (q *TaskQueue) TryPop() (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.count == 0 {
		return Task{}, false
	}

	t := q.buf[q.head]
	q.buf[q.head] = Task{}
	q.head = (q.head + 1) % q.capacity
	q.count--
	q.totalPopped++

	return t, true
}

// Len returns the current number of queued tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.count
}

// Cap returns the current ring capacity.
func (q *TaskQueue) Cap() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity
}

// Stats returns queue statistics.
func (q *TaskQueue) Stats() QueueStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return QueueStats{
		Count:       q.count,
		Capacity:    q.capacity,
		TotalPushed: q.totalPushed,
		TotalPopped: q.totalPopped,
		ResizeCount: q.resizeCount,
	}
}

// QueueStats contains queue statistics.
type QueueStats struct {
	Count       int   `json:"count"`
	Capacity    int   `json:"capacity"`
	TotalPushed int64 `json:"total_pushed"`
	TotalPopped int64 `json:"total_popped"`
	ResizeCount int   `json:"resize_count"`
}

// grow doubles the ring capacity. Caller must hold the lock.
func (q *TaskQueue) grow() {
	newCapacity := q.capacity * 2
	newBuf := make([]Task, newCapacity)

	if q.count > 0 {
		if q.head < q.tail {
			copy(newBuf, q.buf[q.head:q.tail])
		} else {
			n := copy(newBuf, q.buf[q.head:])
			copy(newBuf[n:], q.buf[:q.tail])
		}
	}

	q.buf = newBuf
	q.head = 0
	q.tail = q.count
	q.capacity = newCapacity
	q.resizeCount++
}
