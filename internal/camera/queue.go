package camera

import (
	"context"
	"errors"
	"sync"
)

// errQueueClosed signals that the queue accepts no new frames and holds
// nothing to drain. Session maps it to ErrDeviceLost or ErrSessionClosed.
var errQueueClosed = errors.New("frame queue closed")

// frameQueue is a bounded FIFO of captured frames shared between the driver
// callback (push) and the consumer (pop). When the bound is reached the
// oldest frame is evicted to admit a new one; a max of 0 means unbounded.
type frameQueue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	frames []*Frame
	max    int

	pushed  uint64
	evicted uint64
	closed  bool
}

func newFrameQueue(max int) *frameQueue {
	q := &frameQueue{max: max}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// push appends a frame, evicting the head first when the bound would be
// exceeded. Returns true when an old frame was evicted. Push never fails;
// after close the frame is silently discarded.
func (q *frameQueue) push(f *Frame) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}

	evicted := false
	if q.max > 0 && len(q.frames) >= q.max {
		// Drop-oldest: the reader wants fresh frames, not a full
		// history.
		q.popLocked()
		q.evicted++
		evicted = true
	}

	q.frames = append(q.frames, f)
	q.pushed++
	q.cond.Signal()
	return evicted
}

// popWait removes and returns the oldest frame, blocking until one arrives,
// the context ends, or the queue is closed. A closed queue still drains
// frames that were queued before closing.
func (q *frameQueue) popWait(ctx context.Context) (*Frame, error) {
	// Wake the wait when the caller gives up.
	stop := context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.cond.Broadcast()
		q.mu.Unlock()
	})
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.frames) == 0 && !q.closed && ctx.Err() == nil {
		q.cond.Wait()
	}

	if len(q.frames) > 0 {
		return q.popLocked(), nil
	}
	if q.closed {
		return nil, errQueueClosed
	}
	return nil, ctx.Err()
}

// tryPop removes and returns the oldest frame without blocking.
func (q *frameQueue) tryPop() (*Frame, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.frames) > 0 {
		return q.popLocked(), nil
	}
	if q.closed {
		return nil, errQueueClosed
	}
	return nil, ErrQueueEmpty
}

func (q *frameQueue) popLocked() *Frame {
	f := q.frames[0]
	q.frames[0] = nil
	q.frames = q.frames[1:]
	return f
}

// close stops admission and wakes all blocked readers. Idempotent.
func (q *frameQueue) close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	q.cond.Broadcast()
}

func (q *frameQueue) length() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.frames)
}

// stats returns total frames admitted and total frames evicted by the bound.
func (q *frameQueue) stats() (pushed, evicted uint64) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pushed, q.evicted
}
