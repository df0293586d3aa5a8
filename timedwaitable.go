package futures

import (
	"time"

	"github.com/asmsh/futures/internal/state"
)

// TimedWaitable is the base every composition adapter embeds to get the
// Waitable contract. It enforces the absolute-deadline policy: if the
// deadline hasn't passed, Wait delegates to the adapter-supplied timedWait
// closure for up to q; once the deadline has passed, it gives timedWait one
// last zero-duration chance before reporting a *TimeoutError.
//
// Go has no virtual methods, so the adapter-specific "how do I check
// readiness" and "what do I do at dispatch time" logic are injected as
// closures at construction, rather than overridden in a subclass.
type TimedWaitable struct {
	hasDeadline bool
	deadline    time.Time

	state state.Waitable

	// timedWait probes the adapter's own readiness condition for up to q.
	// It must honor the same "must not block beyond q, except when already
	// ready" contract as Waitable.Wait.
	timedWait func(q time.Duration) (bool, error)

	// onDispatch performs the adapter's terminal action.
	onDispatch func(err error)
}

// newTimedWaitable builds a TimedWaitable with an optional wait limit
// (zero means no deadline), measured from now.
func newTimedWaitable(
	waitLimit time.Duration,
	timedWait func(q time.Duration) (bool, error),
	onDispatch func(err error),
) *TimedWaitable {
	w := &TimedWaitable{
		timedWait:  timedWait,
		onDispatch: onDispatch,
	}
	if waitLimit > 0 {
		w.hasDeadline = true
		w.deadline = time.Now().Add(waitLimit)
	}
	return w
}

// newTimedWaitableWithDeadline is like newTimedWaitable, but takes an
// absolute deadline directly; a zero deadline means no deadline.
func newTimedWaitableWithDeadline(
	deadline time.Time,
	timedWait func(q time.Duration) (bool, error),
	onDispatch func(err error),
) *TimedWaitable {
	w := &TimedWaitable{
		timedWait:  timedWait,
		onDispatch: onDispatch,
	}
	if !deadline.IsZero() {
		w.hasDeadline = true
		w.deadline = deadline
	}
	return w
}

// Deadline returns the absolute deadline and whether one was set.
func (w *TimedWaitable) Deadline() (time.Time, bool) {
	return w.deadline, w.hasDeadline
}

// Expired reports whether now is at or past the deadline. A TimedWaitable
// with no deadline never expires.
func (w *TimedWaitable) Expired(now time.Time) bool {
	if !w.hasDeadline {
		return false
	}
	return !now.Before(w.deadline)
}

// Timeout returns the remaining budget as of now. It is the maximum
// possible duration if there is no deadline.
func (w *TimedWaitable) Timeout(now time.Time) time.Duration {
	if !w.hasDeadline {
		return time.Duration(1<<63 - 1)
	}
	return w.deadline.Sub(now)
}

// Compare returns the difference between this Waitable's deadline and
// other's. A Waitable with no deadline sorts as if its deadline were the
// farthest possible point in the future.
func (w *TimedWaitable) Compare(other Waitable) time.Duration {
	d, ok := other.Deadline()
	if !ok {
		d = time.Now().Add(time.Duration(1<<63 - 1))
	}
	if !w.hasDeadline {
		return time.Duration(1<<63 - 1)
	}
	return w.deadline.Sub(d)
}

// Wait implements the absolute-deadline policy described on TimedWaitable: delegate to timedWait while there's budget left; once the deadline
// has passed, give timedWait one last zero-duration look before failing
// with a *TimeoutError.
func (w *TimedWaitable) Wait(q time.Duration) (bool, error) {
	if w.state.IsReady() {
		return true, nil
	}

	now := time.Now()
	if !w.Expired(now) {
		ready, err := w.timedWait(q)
		if ready || err != nil {
			w.state.MarkReady()
		}
		return ready, err
	}

	ready, err := w.timedWait(0)
	if ready || err != nil {
		w.state.MarkReady()
		return ready, err
	}
	w.state.MarkReady()
	return true, &TimeoutError{Deadline: w.deadline}
}

// Dispatch runs the adapter's terminal action exactly once, panicking with
// an *AlreadySettledError on any further call.
func (w *TimedWaitable) Dispatch(err error) {
	if !w.state.MarkDispatched() {
		panic(&AlreadySettledError{What: "Waitable"})
	}
	w.onDispatch(err)
}
