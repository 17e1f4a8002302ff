package myqueue

import (
	"context"
	"sync"
)

// TaskHandler executes a task that was enqueued in-process.
type TaskHandler func(c context.Context, task Task) error

// InProcessQueue runs tasks synchronously by handing them to a handler that is
// registered for the path. Without a matching handler tasks are kept for inspection.
type InProcessQueue struct {
	sync.Mutex
	handler TaskHandler
	Pending []Task
}

func NewInProcessQueue() *InProcessQueue {
	return &InProcessQueue{}
}

func (q *InProcessQueue) Handle(handler TaskHandler) {
	q.Lock()
	defer q.Unlock()

	q.handler = handler
}

func (q *InProcessQueue) Enqueue(c context.Context, task Task) error {
	q.Lock()
	handler := q.handler
	if handler == nil {
		q.Pending = append(q.Pending, task)
	}
	q.Unlock()

	if handler == nil {
		return nil
	}

	task.IsLastAttempt = true
	return handler(c, task)
}

func (q *InProcessQueue) IsLastAttempt(c context.Context, taskUID string) (int32, int32) {
	return 1, 1
}
