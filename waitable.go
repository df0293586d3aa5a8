package futures

import "time"

// Waitable is the executor-level abstraction over a Future plus a terminal
// Dispatch step. Every composition adapter (Continuation, Chaining,
// Forwarding, Observe, AllSlice, AllRange, AllTupleN) implements it by
// embedding a *TimedWaitable.
//
// Once Wait reports ready (true, nil), every subsequent call on the same
// Waitable must report ready promptly. After Dispatch has been called once,
// any further call on the Waitable is a programming error.
type Waitable interface {
	// Wait blocks for at most q, and reports whether the Waitable is ready.
	// It may return a non-nil error instead, which the caller must treat
	// exactly like "ready, with that error".
	Wait(q time.Duration) (ready bool, err error)

	// Dispatch is the terminal step: it settles the adapter's outgoing
	// Resolver (or, for Observe, runs its side effect) using err if it is
	// non-nil, or the adapter's own logic otherwise. It must run exactly
	// once per Waitable.
	Dispatch(err error)

	// Compare returns Deadline() - other.Deadline(), used to sort a
	// PollingExecutor's working set so near-deadline Waitables are polled
	// first.
	Compare(other Waitable) time.Duration

	// Timeout returns the Waitable's remaining budget as of now. It is
	// negative once the deadline has passed.
	Timeout(now time.Time) time.Duration

	// Expired reports whether now is at or past the Waitable's deadline.
	// A Waitable with no deadline never expires.
	Expired(now time.Time) bool

	// Deadline returns the Waitable's absolute deadline, and whether it
	// has one at all.
	Deadline() (time.Time, bool)
}
