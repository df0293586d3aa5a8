package futures

import "time"

// forwarding is the Forwarding<T> adapter: it becomes ready once an inner
// Future (produced by a Chaining adapter's continuation) is ready, and its
// Dispatch moves that inner Future's value or error into the outgoing
// Resolver that the original caller of ThenChain is holding.
type forwarding[T any] struct {
	*TimedWaitable
	inner *Future[T]
	out   *Resolver[T]
}

// newForwarding builds a Forwarding adapter carrying the remaining wait
// budget computed from the Chaining adapter's original deadline.
func newForwarding[T any](deadline time.Time, inner *Future[T], out *Resolver[T]) *forwarding[T] {
	f := &forwarding[T]{inner: inner, out: out}
	f.TimedWaitable = newTimedWaitableWithDeadline(deadline, f.timedWait, f.dispatch)
	return f
}

func (f *forwarding[T]) timedWait(q time.Duration) (bool, error) {
	return f.inner.TimedWait(q), nil
}

func (f *forwarding[T]) dispatch(err error) {
	if err != nil {
		f.out.Reject(err)
		return
	}
	val, innerErr := f.inner.Get()
	if innerErr != nil {
		f.out.Reject(innerErr)
		return
	}
	f.out.Resolve(val)
}
