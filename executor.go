package futures

import (
	"log/slog"
	"sync"
	"time"

	"github.com/asmsh/futures/internal/id"
)

// Executor is the minimal surface the composition adapters need: a place
// to watch a Waitable, and a way to stop accepting new work.
type Executor interface {
	// Watch transfers ownership of w to the executor. It returns
	// immediately; w is eventually dispatched exactly once, either through
	// ordinary polling or, if the executor is or becomes stopped, with a
	// stopped/inactive error.
	Watch(w Waitable)

	// Stop latches the executor inactive. It is idempotent. Every
	// currently-queued Waitable, and any watched afterward, is dispatched
	// with ErrExecutorStopped / ErrExecutorInactive.
	Stop()
}

// ObservePolicy controls what an Observe adapter does when it is dispatched
// with an error (a timeout or a stopped executor) or its continuation
// panics, since it has no outgoing Resolver to absorb the failure.
type ObservePolicy int

const (
	// ObservePolicyPropagate re-raises the failure on the dispatch
	// goroutine, matching the documented behavior of the system this
	// package's design is based on. Left unrecovered further up the call
	// stack, this can crash the dispatch goroutine, and with it the single
	// dedicated dispatch invoker this package uses by default.
	ObservePolicyPropagate ObservePolicy = iota

	// ObservePolicyRecover logs the failure through the executor's Logger
	// at Error level and swallows it instead of propagating it.
	ObservePolicyRecover
)

// PollingExecutor multiplexes many outstanding Waitables onto a small,
// bounded set of goroutines, using timed waits rather than blocking waits.
// It is the only Executor implementation in this package.
type PollingExecutor struct {
	id string

	mu            sync.Mutex
	waitables     []Waitable
	active        bool
	pollerRunning bool

	quantum         time.Duration
	pollInvoker     PollInvoker
	dispatchInvoker DispatchInvoker
	logger          *slog.Logger
	observePolicy   ObservePolicy
	partialSort     bool
}

// NewPollingExecutor builds a PollingExecutor from opts. Unset options fall
// back to: a 10ms polling quantum, a semaphore-bounded new-goroutine-per-
// poll invoker, a single dedicated dispatch goroutine, slog.Default(), and
// ObservePolicyPropagate.
func NewPollingExecutor(opts ...Option) *PollingExecutor {
	e := &PollingExecutor{
		id:      id.New(),
		active:  true,
		quantum: 10 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.pollInvoker == nil {
		e.pollInvoker = NewThreadPollInvoker(1)
	}
	if e.dispatchInvoker == nil {
		e.dispatchInvoker = NewSingleThreadDispatchInvoker()
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	return e
}

// NewDefaultExecutor returns a PollingExecutor configured the way most
// callers want: a bounded new-goroutine-per-poll invoker and a single
// dedicated dispatch goroutine.
func NewDefaultExecutor() *PollingExecutor {
	return NewPollingExecutor()
}

// Watch implements Executor.
func (e *PollingExecutor) Watch(w Waitable) {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		e.logger.Debug("futures: watch on inactive executor", "executor", e.id)
		e.dispatchInvoker.RunDispatch(func() { e.safeDispatch(w, ErrExecutorInactive) })
		return
	}

	e.waitables = append(e.waitables, w)
	needStart := !e.pollerRunning
	if needStart {
		e.pollerRunning = true
	}
	e.mu.Unlock()

	e.logger.Debug("futures: watch", "executor", e.id)
	if needStart {
		e.pollInvoker.RunPoll(e.pollLoop)
	}
}

// Stop implements Executor. It is idempotent.
func (e *PollingExecutor) Stop() {
	e.mu.Lock()
	if !e.active {
		e.mu.Unlock()
		return
	}
	e.active = false
	pending := e.waitables
	e.waitables = nil
	e.mu.Unlock()

	e.logger.Debug("futures: stop", "executor", e.id, "pending", len(pending))
	e.rejectAll(pending, ErrExecutorStopped)
}

// Close stops the executor and joins its poll and dispatch invokers. It is
// the equivalent of the destructor in the system this package's design is
// based on.
func (e *PollingExecutor) Close() {
	e.Stop()
	e.pollInvoker.Close()
	e.dispatchInvoker.Close()
}

// pollLoop is the poll closure: it drains the queue, waits on each item for
// up to the quantum, hands ready/failed items to the dispatch invoker, and
// re-merges newly watched items until both the snapshot and its local
// working set are empty.
func (e *PollingExecutor) pollLoop() {
	var polling []Waitable

	for {
		e.mu.Lock()
		active := e.active
		snapshot := e.waitables
		e.waitables = nil
		if !active || (len(snapshot) == 0 && len(polling) == 0) {
			e.pollerRunning = false
			e.mu.Unlock()
			if !active {
				leftover := append(polling, snapshot...)
				e.rejectAll(leftover, ErrExecutorStopped)
			}
			return
		}
		e.mu.Unlock()

		polling = append(polling, snapshot...)
		e.sortByDeadline(polling)

		remaining := polling[:0]
		for _, w := range polling {
			ready, err := w.Wait(e.quantum)
			switch {
			case err != nil:
				e.dispatch(w, err)
			case ready:
				e.dispatch(w, nil)
			default:
				remaining = append(remaining, w)
			}
		}
		polling = remaining
	}
}

func (e *PollingExecutor) sortByDeadline(ws []Waitable) {
	if e.partialSort {
		partialSortByDeadline(ws)
		return
	}
	sortByDeadline(ws)
}

func (e *PollingExecutor) rejectAll(ws []Waitable, err error) {
	for _, w := range ws {
		e.dispatch(w, err)
	}
}

func (e *PollingExecutor) dispatch(w Waitable, err error) {
	e.dispatchInvoker.RunDispatch(func() { e.safeDispatch(w, err) })
}

// safeDispatch runs w.Dispatch(err), applying the configured ObservePolicy
// if the adapter happens to be an Observe adapter that panics because it
// has no outgoing Resolver to absorb a failure.
func (e *PollingExecutor) safeDispatch(w Waitable, err error) {
	if e.observePolicy == ObservePolicyRecover {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("futures: recovered panic from Dispatch", "executor", e.id, "panic", r)
			}
		}()
	}
	w.Dispatch(err)
}
