package futures

import (
	"context"
	"time"
)

// defaultWaitLimit is the deadline every composition overload that omits
// an explicit deadline falls back to.
const defaultWaitLimit = time.Hour

// continuation is the Continuation<TIn,TOut> adapter: it becomes ready
// once its input is ready, and its Dispatch runs a plain (non-chaining)
// continuation function.
type continuation[TIn, TOut any] struct {
	*TimedWaitable
	input *Future[TIn]
	out   *Resolver[TOut]
	cont  func(ctx context.Context, val TIn) (TOut, error)
	ctx   context.Context
}

// Then attaches cont to input: once input is ready, executor runs cont with
// input's value and settles the returned Future with cont's result. If
// deadline passes before input becomes ready, the returned Future is
// settled with a *TimeoutError instead, and cont never runs.
func Then[TIn, TOut any](
	executor Executor,
	deadline time.Time,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (TOut, error),
) *Future[TOut] {
	return thenCtx(executor, deadline, context.Background(), input, cont)
}

// ThenCtx is like Then, but runs cont with ctx instead of context.Background().
func ThenCtx[TIn, TOut any](
	executor Executor,
	deadline time.Time,
	ctx context.Context,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (TOut, error),
) *Future[TOut] {
	return thenCtx(executor, deadline, ctx, input, cont)
}

// ThenOn is Then with the deadline defaulted to one hour from now.
func ThenOn[TIn, TOut any](
	executor Executor,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (TOut, error),
) *Future[TOut] {
	return Then(executor, time.Now().Add(defaultWaitLimit), input, cont)
}

// ThenAt is Then with the executor defaulted from the scoped registry.
func ThenAt[TIn, TOut any](
	deadline time.Time,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (TOut, error),
) *Future[TOut] {
	return Then(currentExecutorOrPanic(), deadline, input, cont)
}

// ThenDefault is Then with both the executor and the deadline defaulted.
func ThenDefault[TIn, TOut any](
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (TOut, error),
) *Future[TOut] {
	return Then(currentExecutorOrPanic(), time.Now().Add(defaultWaitLimit), input, cont)
}

func thenCtx[TIn, TOut any](
	executor Executor,
	deadline time.Time,
	ctx context.Context,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (TOut, error),
) *Future[TOut] {
	if cont == nil {
		panic("futures: Then called with a nil continuation")
	}

	out, resolver := NewFuture[TOut]()
	c := &continuation[TIn, TOut]{
		input: input,
		out:   resolver,
		cont:  cont,
		ctx:   ctx,
	}
	c.TimedWaitable = newTimedWaitableWithDeadline(deadline, c.timedWait, c.dispatch)
	executor.Watch(c)
	return out
}

func (c *continuation[TIn, TOut]) timedWait(q time.Duration) (bool, error) {
	return c.input.TimedWait(q), nil
}

func (c *continuation[TIn, TOut]) dispatch(err error) {
	if err != nil {
		c.out.Reject(err)
		return
	}

	val, inErr := c.input.Get()
	if inErr != nil {
		c.out.Reject(inErr)
		return
	}

	result, rErr := c.runCont(val)
	if rErr != nil {
		c.out.Reject(rErr)
		return
	}
	c.out.Resolve(result)
}

func (c *continuation[TIn, TOut]) runCont(val TIn) (out TOut, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newUncaughtPanicError(r)
		}
	}()
	return c.cont(c.ctx, val)
}
