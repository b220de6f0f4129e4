package rollback

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// saveQueue serializes log writes. A weighted semaphore of size one grants
// waiters in the order they asked, so saves land first come first served.
type saveQueue struct {
	sem *semaphore.Weighted
}

func newSaveQueue() *saveQueue {
	return &saveQueue{sem: semaphore.NewWeighted(1)}
}

// acquire blocks until it is the caller's turn or ctx is done
func (q *saveQueue) acquire(ctx context.Context) error {
	return q.sem.Acquire(ctx, 1)
}

func (q *saveQueue) release() {
	q.sem.Release(1)
}
