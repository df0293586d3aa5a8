package futures

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"
)

// PollInvoker is the strategy an executor uses to actually run its poll
// loop. It mirrors the InvokerWithNewThread/InvokerWithSingleThread split
// in the system this package's design is based on: how the poll loop is
// scheduled is orthogonal to what it does once scheduled.
type PollInvoker interface {
	// RunPoll schedules loop to run to completion. It must not block
	// longer than it takes to hand loop off; the loop itself may run for
	// an arbitrarily long time.
	RunPoll(loop func())

	// Close waits for every loop started by RunPoll to return.
	Close()
}

// ThreadPollInvoker runs each poll loop on its own goroutine, bounded
// by a weighted semaphore so an executor fed by many short-lived bursts of
// Watch calls can't spawn unbounded goroutines. A limit of 0 or less means
// unbounded.
type ThreadPollInvoker struct {
	sem *semaphore.Weighted
	wg  sync.WaitGroup
}

// NewThreadPollInvoker returns a PollInvoker that runs every poll loop on
// a fresh goroutine, admitting at most limit concurrent loops when limit
// is positive.
func NewThreadPollInvoker(limit int64) *ThreadPollInvoker {
	inv := &ThreadPollInvoker{}
	if limit > 0 {
		inv.sem = semaphore.NewWeighted(limit)
	}
	return inv
}

func (inv *ThreadPollInvoker) RunPoll(loop func()) {
	inv.wg.Add(1)
	go func() {
		defer inv.wg.Done()
		if inv.sem != nil {
			_ = inv.sem.Acquire(context.Background(), 1)
			defer inv.sem.Release(1)
		}
		loop()
	}()
}

func (inv *ThreadPollInvoker) Close() {
	inv.wg.Wait()
}

// DedicatedThreadPollInvoker runs every poll loop it's handed on a single,
// long-lived goroutine, queuing requests to start a new loop behind a
// size-1 channel. It is the closest analogue to
// InvokerWithSingleThread.h: exactly one goroutine ever executes a poll
// loop for the executor's whole lifetime.
type DedicatedThreadPollInvoker struct {
	requests chan func()
	done     chan struct{}
	once     sync.Once
}

// NewDedicatedThreadPollInvoker starts the dedicated goroutine and returns
// a PollInvoker backed by it.
func NewDedicatedThreadPollInvoker() *DedicatedThreadPollInvoker {
	inv := &DedicatedThreadPollInvoker{
		requests: make(chan func(), 1),
		done:     make(chan struct{}),
	}
	go inv.run()
	return inv
}

func (inv *DedicatedThreadPollInvoker) run() {
	defer close(inv.done)
	for loop := range inv.requests {
		loop()
	}
}

func (inv *DedicatedThreadPollInvoker) RunPoll(loop func()) {
	inv.requests <- loop
}

func (inv *DedicatedThreadPollInvoker) Close() {
	inv.once.Do(func() { close(inv.requests) })
	<-inv.done
}

// InlinePollInvoker runs the poll loop synchronously on the calling
// goroutine. It exists for tests that want deterministic, non-concurrent
// control over when a poll round happens, and should not be used outside
// of them: RunPoll blocks its caller until the whole loop returns.
type InlinePollInvoker struct{}

func (InlinePollInvoker) RunPoll(loop func()) { loop() }
func (InlinePollInvoker) Close()              {}
