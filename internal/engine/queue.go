package engine

import "sync"

// Queue is the shared work queue: filled once during the scan phase, then
// drained concurrently by the worker pool. An empty queue is the workers'
// termination signal.
type Queue struct {
	mu    sync.Mutex
	tasks []FileTask
	head  int
}

// NewQueue creates a queue with room for n tasks.
func NewQueue(n int) *Queue {
	return &Queue{tasks: make([]FileTask, 0, n)}
}

// Enqueue appends a task. Safe for concurrent use.
func (q *Queue) Enqueue(t FileTask) {
	q.mu.Lock()
	q.tasks = append(q.tasks, t)
	q.mu.Unlock()
}

// TryDequeue claims the next task. Each enqueued task is returned to exactly
// one caller; ok is false once the queue is drained.
func (q *Queue) TryDequeue() (FileTask, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head >= len(q.tasks) {
		return FileTask{}, false
	}
	t := q.tasks[q.head]
	q.tasks[q.head] = FileTask{}
	q.head++
	return t, true
}

// Len returns the number of tasks not yet claimed.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks) - q.head
}
