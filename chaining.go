package futures

import (
	"context"
	"time"
	"weak"
)

// chaining is the Chaining<TIn,TOut> adapter: like continuation, but its
// continuation returns a Future[TOut] rather than a TOut directly. Once its
// input is ready, its continuation runs and produces an inner Future; the
// outgoing Resolver is then settled by a fresh Forwarding adapter watching
// that inner Future, not by this adapter itself.
//
// It holds a weak reference to the executor it will re-enter with that
// Forwarding adapter, to avoid the executor -> adapter -> executor lifetime
// cycle an ordinary pointer would create.
type chaining[TIn, TOut any] struct {
	*TimedWaitable
	input    *Future[TIn]
	out      *Resolver[TOut]
	cont     func(ctx context.Context, val TIn) (*Future[TOut], error)
	ctx      context.Context
	executor weak.Pointer[PollingExecutor]
	deadline time.Time
}

// ThenChain attaches cont to input, where cont itself returns a Future. The
// returned Future settles to whatever cont's returned inner Future
// eventually settles to, without the executor blocking on that inner
// Future; it is watched as its own Waitable.
func ThenChain[TIn, TOut any](
	executor *PollingExecutor,
	deadline time.Time,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (*Future[TOut], error),
) *Future[TOut] {
	return thenChainCtx(executor, deadline, context.Background(), input, cont)
}

// ThenChainCtx is like ThenChain, but runs cont with ctx instead of
// context.Background().
func ThenChainCtx[TIn, TOut any](
	executor *PollingExecutor,
	deadline time.Time,
	ctx context.Context,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (*Future[TOut], error),
) *Future[TOut] {
	return thenChainCtx(executor, deadline, ctx, input, cont)
}

// ThenChainOn is ThenChain with the deadline defaulted to one hour from now.
func ThenChainOn[TIn, TOut any](
	executor *PollingExecutor,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (*Future[TOut], error),
) *Future[TOut] {
	return ThenChain(executor, time.Now().Add(defaultWaitLimit), input, cont)
}

// ThenChainAt is ThenChain with the executor defaulted from the scoped
// registry. It panics if the registry's current executor is not a
// *PollingExecutor.
func ThenChainAt[TIn, TOut any](
	deadline time.Time,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (*Future[TOut], error),
) *Future[TOut] {
	return ThenChain(currentPollingExecutorOrPanic(), deadline, input, cont)
}

// ThenChainDefault is ThenChain with both the executor and the deadline
// defaulted.
func ThenChainDefault[TIn, TOut any](
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (*Future[TOut], error),
) *Future[TOut] {
	return ThenChain(currentPollingExecutorOrPanic(), time.Now().Add(defaultWaitLimit), input, cont)
}

func thenChainCtx[TIn, TOut any](
	executor *PollingExecutor,
	deadline time.Time,
	ctx context.Context,
	input *Future[TIn],
	cont func(ctx context.Context, val TIn) (*Future[TOut], error),
) *Future[TOut] {
	if cont == nil {
		panic("futures: ThenChain called with a nil continuation")
	}

	out, resolver := NewFuture[TOut]()
	c := &chaining[TIn, TOut]{
		input:    input,
		out:      resolver,
		cont:     cont,
		ctx:      ctx,
		executor: weak.Make(executor),
		deadline: deadline,
	}
	c.TimedWaitable = newTimedWaitableWithDeadline(deadline, c.timedWait, c.dispatch)
	executor.Watch(c)
	return out
}

func (c *chaining[TIn, TOut]) timedWait(q time.Duration) (bool, error) {
	return c.input.TimedWait(q), nil
}

func (c *chaining[TIn, TOut]) dispatch(err error) {
	if err != nil {
		c.out.Reject(err)
		return
	}

	val, inErr := c.input.Get()
	if inErr != nil {
		c.out.Reject(inErr)
		return
	}

	inner, contErr := c.runCont(val)
	if contErr != nil {
		c.out.Reject(contErr)
		return
	}

	executor := c.executor.Value()
	if executor == nil {
		c.out.Reject(&ExecutorUnavailableError{})
		return
	}

	remaining := remainingDeadline(c.deadline)
	executor.Watch(newForwarding(remaining, inner, c.out))
}

func (c *chaining[TIn, TOut]) runCont(val TIn) (out *Future[TOut], err error) {
	defer func() {
		if r := recover(); r != nil {
			err = newUncaughtPanicError(r)
		}
	}()
	return c.cont(c.ctx, val)
}

// remainingDeadline returns deadline unchanged, unless it is the zero value
// (no deadline), in which case it is passed through as-is: a Forwarding
// adapter with a zero deadline has no deadline either.
func remainingDeadline(deadline time.Time) time.Time {
	return deadline
}
