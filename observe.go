package futures

import (
	"context"
	"time"
)

// observe is the Observe<TIn> adapter: it runs a side-effecting
// continuation once its input settles, but produces no outgoing Future of
// its own. Unlike continuation and chaining, it has no Resolver to absorb
// a dispatch error (a timeout or a stopped executor) or a panicking
// continuation, so what happens to such a failure is governed by its
// executor's ObservePolicy instead. A failed input is not such a failure:
// its error is handed to the continuation.
type observe[TIn any] struct {
	*TimedWaitable
	input *Future[TIn]
	obs   func(ctx context.Context, val TIn, err error)
	ctx   context.Context
}

// Observe attaches obs to input: once input settles, executor runs obs
// with input's value and error (exactly one of which is non-zero/non-nil,
// per Future's contract). obs runs regardless of whether input succeeded.
// If the deadline passes or the executor stops before input settles, obs
// does not run; that failure is handled by the executor's ObservePolicy.
func Observe[TIn any](
	executor Executor,
	deadline time.Time,
	input *Future[TIn],
	obs func(ctx context.Context, val TIn, err error),
) {
	observeCtx(executor, deadline, context.Background(), input, obs)
}

// ObserveCtx is like Observe, but runs obs with ctx instead of
// context.Background().
func ObserveCtx[TIn any](
	executor Executor,
	deadline time.Time,
	ctx context.Context,
	input *Future[TIn],
	obs func(ctx context.Context, val TIn, err error),
) {
	observeCtx(executor, deadline, ctx, input, obs)
}

// ObserveOn is Observe with the deadline defaulted to one hour from now.
func ObserveOn[TIn any](
	executor Executor,
	input *Future[TIn],
	obs func(ctx context.Context, val TIn, err error),
) {
	Observe(executor, time.Now().Add(defaultWaitLimit), input, obs)
}

// ObserveAt is Observe with the executor defaulted from the scoped
// registry.
func ObserveAt[TIn any](
	deadline time.Time,
	input *Future[TIn],
	obs func(ctx context.Context, val TIn, err error),
) {
	Observe(currentExecutorOrPanic(), deadline, input, obs)
}

// ObserveDefault is Observe with both the executor and the deadline
// defaulted.
func ObserveDefault[TIn any](
	input *Future[TIn],
	obs func(ctx context.Context, val TIn, err error),
) {
	Observe(currentExecutorOrPanic(), time.Now().Add(defaultWaitLimit), input, obs)
}

func observeCtx[TIn any](
	executor Executor,
	deadline time.Time,
	ctx context.Context,
	input *Future[TIn],
	obs func(ctx context.Context, val TIn, err error),
) {
	if obs == nil {
		panic("futures: Observe called with a nil observer")
	}

	o := &observe[TIn]{
		input: input,
		obs:   obs,
		ctx:   ctx,
	}
	o.TimedWaitable = newTimedWaitableWithDeadline(deadline, o.timedWait, o.dispatch)
	executor.Watch(o)
}

func (o *observe[TIn]) timedWait(q time.Duration) (bool, error) {
	return o.input.TimedWait(q), nil
}

func (o *observe[TIn]) dispatch(err error) {
	if err != nil {
		panic(err)
	}

	val, inErr := o.input.Get()
	o.obs(o.ctx, val, inErr)
}
