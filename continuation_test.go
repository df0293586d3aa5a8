package futures

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T) *PollingExecutor {
	e := NewPollingExecutor(WithQuantum(2 * time.Millisecond))
	t.Cleanup(e.Close)
	return e
}

func TestThen_RunsContinuation(t *testing.T) {
	e := newTestExecutor(t)
	in := FromValue(21)

	out := Then(e, time.Now().Add(time.Second), in, func(ctx context.Context, val int) (int, error) {
		return val * 2, nil
	})

	val, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, 42, val)
}

func TestThen_PropagatesInputError(t *testing.T) {
	e := newTestExecutor(t)
	wantErr := errors.New("input failed")
	in := FromError[int](wantErr)

	out := Then(e, time.Now().Add(time.Second), in, func(ctx context.Context, val int) (int, error) {
		t.Fatal("continuation must not run when the input failed")
		return 0, nil
	})

	_, err := out.Get()
	assert.Equal(t, wantErr, err)
}

func TestThen_ContinuationError(t *testing.T) {
	e := newTestExecutor(t)
	in := FromValue(1)
	wantErr := errors.New("continuation failed")

	out := Then(e, time.Now().Add(time.Second), in, func(ctx context.Context, val int) (int, error) {
		return 0, wantErr
	})

	_, err := out.Get()
	assert.Equal(t, wantErr, err)
}

func TestThen_ContinuationPanic(t *testing.T) {
	e := newTestExecutor(t)
	in := FromValue(1)

	out := Then(e, time.Now().Add(time.Second), in, func(ctx context.Context, val int) (int, error) {
		panic("kaboom")
	})

	_, err := out.Get()
	var panicErr *UncaughtPanicError
	require.ErrorAs(t, err, &panicErr)
	assert.Equal(t, "kaboom", panicErr.V())
}

func TestThen_DeadlinePassesBeforeInputReady(t *testing.T) {
	e := newTestExecutor(t)
	in, _ := NewFuture[int]()

	out := Then(e, time.Now().Add(20*time.Millisecond), in, func(ctx context.Context, val int) (int, error) {
		t.Fatal("continuation must not run after a timeout")
		return 0, nil
	})

	_, err := out.Get()
	var timeoutErr *TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
}

func TestThen_NilContinuationPanics(t *testing.T) {
	e := newTestExecutor(t)
	in := FromValue(1)
	assert.Panics(t, func() {
		Then[int, int](e, time.Now().Add(time.Second), in, nil)
	})
}

func TestThenCtx_PassesContextThrough(t *testing.T) {
	e := newTestExecutor(t)
	in := FromValue(1)
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "value")

	out := ThenCtx(e, time.Now().Add(time.Second), ctx, in, func(ctx context.Context, val int) (string, error) {
		return ctx.Value(key{}).(string), nil
	})

	val, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, "value", val)
}

func TestThenAt_UsesScopedDefault(t *testing.T) {
	e := newTestExecutor(t)
	pop := PushDefaultExecutor(e)
	defer pop()

	in := FromValue(1)
	out := ThenAt(time.Now().Add(time.Second), in, func(ctx context.Context, val int) (int, error) {
		return val + 1, nil
	})

	val, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, val)
}

func TestThenDefault_PanicsWithoutRegisteredExecutor(t *testing.T) {
	in := FromValue(1)
	assert.Panics(t, func() {
		ThenDefault(in, func(ctx context.Context, val int) (int, error) { return val, nil })
	})
}
