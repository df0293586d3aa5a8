package futures

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultRegistry_PushPopLIFO(t *testing.T) {
	_, ok := CurrentExecutor()
	require.False(t, ok)

	outer := &stubExecutor{}
	popOuter := PushDefaultExecutor(outer)

	got, ok := CurrentExecutor()
	require.True(t, ok)
	assert.Same(t, outer, got)

	inner := &stubExecutor{}
	popInner := PushDefaultExecutor(inner)

	got, ok = CurrentExecutor()
	require.True(t, ok)
	assert.Same(t, inner, got)

	popInner()

	got, ok = CurrentExecutor()
	require.True(t, ok)
	assert.Same(t, outer, got)

	popOuter()

	_, ok = CurrentExecutor()
	assert.False(t, ok)
}

func TestDefaultRegistry_PopDefaultExecutor(t *testing.T) {
	e := &stubExecutor{}
	PushDefaultExecutor(e)
	PopDefaultExecutor()

	_, ok := CurrentExecutor()
	assert.False(t, ok)
}

func TestDefaultRegistry_PopOnEmptyPanics(t *testing.T) {
	_, ok := CurrentExecutor()
	require.False(t, ok)
	assert.Panics(t, PopDefaultExecutor)
}

func TestDefaultRegistry_OutOfOrderPopIsNoop(t *testing.T) {
	outer := &stubExecutor{}
	popOuter := PushDefaultExecutor(outer)

	inner := &stubExecutor{}
	_ = PushDefaultExecutor(inner)

	// popping the outer scope's closure before the inner one must not
	// remove the inner executor out from under it.
	popOuter()

	got, ok := CurrentExecutor()
	require.True(t, ok)
	assert.Same(t, inner, got)

	PopDefaultExecutor()
	got, ok = CurrentExecutor()
	require.True(t, ok)
	assert.Same(t, outer, got)

	PopDefaultExecutor()
	_, ok = CurrentExecutor()
	assert.False(t, ok)
}
