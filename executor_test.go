package futures

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollingExecutor_StopRejectsPending(t *testing.T) {
	e := NewPollingExecutor(WithQuantum(2 * time.Millisecond))
	in, _ := NewFuture[int]()

	out := Then(e, time.Now().Add(time.Minute), in, func(ctx context.Context, val int) (int, error) {
		return val, nil
	})

	// give the poller a moment to pick the watched item up.
	time.Sleep(10 * time.Millisecond)
	e.Stop()

	_, err := out.Get()
	assert.ErrorIs(t, err, ErrExecutorStopped)
}

func TestPollingExecutor_WatchAfterStopIsRejectedInactive(t *testing.T) {
	e := NewPollingExecutor(WithQuantum(2 * time.Millisecond))
	e.Stop()

	in := FromValue(1)
	out := Then(e, time.Now().Add(time.Second), in, func(ctx context.Context, val int) (int, error) {
		return val, nil
	})

	_, err := out.Get()
	assert.ErrorIs(t, err, ErrExecutorInactive)
}

func TestPollingExecutor_StopIsIdempotent(t *testing.T) {
	e := NewPollingExecutor()
	e.Stop()
	assert.NotPanics(t, e.Stop)
}

func TestPollingExecutor_ManyConcurrentWatches(t *testing.T) {
	e := newTestExecutor(t)

	const n = 50
	outs := make([]*Future[int], n)
	for i := 0; i < n; i++ {
		i := i
		outs[i] = Then(e, time.Now().Add(time.Second), FromValue(i), func(ctx context.Context, val int) (int, error) {
			return val * val, nil
		})
	}

	for i, out := range outs {
		val, err := out.Get()
		require.NoError(t, err)
		assert.Equal(t, i*i, val)
	}
}

func TestPollingExecutor_PartialSortOption(t *testing.T) {
	e := NewPollingExecutor(WithQuantum(2*time.Millisecond), WithPartialSort(true))
	t.Cleanup(e.Close)

	out := Then(e, time.Now().Add(time.Second), FromValue(1), func(ctx context.Context, val int) (int, error) {
		return val, nil
	})

	val, err := out.Get()
	require.NoError(t, err)
	assert.Equal(t, 1, val)
}

func TestPollingExecutor_Close_JoinsInvokers(t *testing.T) {
	e := NewPollingExecutor(WithQuantum(2 * time.Millisecond))
	Then(e, time.Now().Add(time.Second), FromValue(1), func(ctx context.Context, val int) (int, error) {
		return val, nil
	})

	done := make(chan struct{})
	go func() {
		e.Close()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not return")
	}
}
