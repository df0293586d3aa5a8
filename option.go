package futures

import (
	"log/slog"
	"time"
)

// Option configures a PollingExecutor at construction time.
type Option func(e *PollingExecutor)

// WithQuantum sets the per-item timed-wait budget the poll loop spends on
// each Waitable before moving to the next one.
func WithQuantum(quantum time.Duration) Option {
	return func(e *PollingExecutor) { e.quantum = quantum }
}

// WithLogger sets the *slog.Logger the executor reports its lifecycle and
// recovered panics through.
func WithLogger(logger *slog.Logger) Option {
	return func(e *PollingExecutor) { e.logger = logger }
}

// WithObservePolicy sets how Observe adapters watched by this executor
// react to a dispatch error or a panicking continuation.
func WithObservePolicy(policy ObservePolicy) Option {
	return func(e *PollingExecutor) { e.observePolicy = policy }
}

// WithPartialSort makes the poll loop order the polling set by deadline
// through a binary-insertion queue (waitableQueue) instead of sort.Slice.
// Both orderings put the nearest deadline first.
func WithPartialSort(enabled bool) Option {
	return func(e *PollingExecutor) { e.partialSort = enabled }
}

// WithPollInvoker overrides the strategy used to run the poll loop itself.
func WithPollInvoker(invoker PollInvoker) Option {
	return func(e *PollingExecutor) { e.pollInvoker = invoker }
}

// WithDispatchInvoker overrides the strategy used to run dispatch
// closures once a Waitable becomes ready or fails.
func WithDispatchInvoker(invoker DispatchInvoker) Option {
	return func(e *PollingExecutor) { e.dispatchInvoker = invoker }
}
