// Package workqueue provides a single-worker FIFO queue for deferred work.
//
// Work posted from a restricted context (a timer callback, for example) is
// executed later on the queue's own goroutine, one item at a time, in the
// order it was posted.
package workqueue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"
)

// ErrStopped is returned when posting to a queue that is not running.
var ErrStopped = errors.New("work queue stopped")

// ErrFull is returned when the pending-work buffer is exhausted.
var ErrFull = errors.New("work queue full")

// DefaultSize is the default number of pending work items.
const DefaultSize = 16

// Work is a unit of deferred work.
type Work func()

// Queue is a single-consumer work queue.
type Queue struct {
	name string

	mu      sync.Mutex
	items   chan Work
	running bool
	done    chan struct{}
}

// New returns a stopped queue holding up to size pending items.
func New(name string, size int) *Queue {
	if size <= 0 {
		size = DefaultSize
	}
	return &Queue{
		name:  name,
		items: make(chan Work, size),
	}
}

// Start launches the worker. Starting a running queue is a no-op.
func (q *Queue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true
	q.done = make(chan struct{})
	go q.run(q.items, q.done)
}

// Enqueue posts w. It never blocks: when the queue is full the item is
// dropped and ErrFull is returned.
func (q *Queue) Enqueue(w Work) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.running {
		return ErrStopped
	}
	select {
	case q.items <- w:
		return nil
	default:
		logrus.WithField("queue", q.name).Error("work queue full, dropping work")
		return ErrFull
	}
}

// Stop drains pending work, waits for the worker to exit and leaves the
// queue ready to be started again.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	items, done := q.items, q.done
	q.items = make(chan Work, cap(items))
	q.mu.Unlock()

	close(items)
	<-done
}

func (q *Queue) run(items <-chan Work, done chan<- struct{}) {
	defer close(done)

	logrus.WithField("queue", q.name).Debug("work queue started")
	for w := range items {
		q.execute(w)
	}
	logrus.WithField("queue", q.name).Debug("work queue stopped")
}

func (q *Queue) execute(w Work) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"queue": q.name,
				"panic": r,
			}).Error("deferred work panicked")
		}
	}()
	w()
}
