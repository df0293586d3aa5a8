package futures

import (
	"time"

	"github.com/asmsh/futures/internal/state"
)

// Future is this package's single-shot asynchronous result primitive: the
// external collaborator the rest of this package's composition surface is
// built on top of. It carries a value or an error that becomes available
// exactly once, and exposes a bounded TimedWait probe alongside a blocking
// Get.
//
// A Future is created settled (FromValue, FromError, Completed) or
// unsettled, paired with a Resolver (NewFuture). It does not itself support
// Then/Catch-style chaining; that composition lives in this package's
// top-level functions and the PollingExecutor adapters that back them.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Resolver is the write side of a Future, returned alongside it by
// NewFuture. Exactly one of Resolve or Reject may ever be called, and only
// once; any further call panics with an *AlreadySettledError.
type Resolver[T any] struct {
	f        *Future[T]
	settled  state.Settlement
}

// NewFuture creates an unsettled Future and its paired Resolver.
func NewFuture[T any]() (*Future[T], *Resolver[T]) {
	f := &Future[T]{done: make(chan struct{})}
	return f, &Resolver[T]{f: f}
}

// FromValue returns a Future that is already settled to val.
func FromValue[T any](val T) *Future[T] {
	f := &Future[T]{done: closedChan, val: val}
	return f
}

// FromError returns a Future that is already settled to err.
//
// It panics if err is nil; use FromValue for a successful result.
func FromError[T any](err error) *Future[T] {
	if err == nil {
		panic("futures: FromError called with a nil error")
	}
	f := &Future[T]{done: closedChan, err: err}
	return f
}

// Completed returns a Future[struct{}] that is already settled with no
// value and no error. It is the unit specialization the distilled spec
// calls fromValue() with no argument; Go can't overload FromValue by
// arity, so it gets its own name.
func Completed() *Future[struct{}] {
	return FromValue(struct{}{})
}

// closedChan is a process-wide already-closed channel, shared by every
// already-settled Future so construction doesn't need to allocate and
// close a fresh channel each time.
var closedChan = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// TimedWait blocks for at most q waiting for f to settle, and reports
// whether it is settled by the time it returns. A q of zero performs a
// single non-blocking check. Once it has reported true, it reports true on
// every later call.
func (f *Future[T]) TimedWait(q time.Duration) bool {
	if q <= 0 {
		select {
		case <-f.done:
			return true
		default:
			return false
		}
	}
	timer := time.NewTimer(q)
	defer timer.Stop()
	select {
	case <-f.done:
		return true
	case <-timer.C:
		return false
	}
}

// Get blocks until f is settled, then returns its value and error exactly
// as given to the paired Resolver's Resolve or Reject.
func (f *Future[T]) Get() (T, error) {
	<-f.done
	return f.val, f.err
}

// Resolve settles the Future with val and a nil error.
func (r *Resolver[T]) Resolve(val T) {
	r.settle(val, nil)
}

// Reject settles the Future with err. It panics if err is nil; Resolve
// should be used for a successful result.
func (r *Resolver[T]) Reject(err error) {
	if err == nil {
		panic("futures: Reject called with a nil error")
	}
	r.settle(r.f.val, err)
}

func (r *Resolver[T]) settle(val T, err error) {
	if !r.settled.MarkSettled() {
		panic(&AlreadySettledError{What: "Resolver"})
	}
	r.f.val, r.f.err = val, err
	close(r.f.done)
}
