package futures

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingleThreadDispatchInvoker_RunsInSubmissionOrder(t *testing.T) {
	inv := NewSingleThreadDispatchInvoker()
	defer inv.Close()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		inv.RunDispatch(func() {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestSingleThreadDispatchInvoker_CloseDrainsQueue(t *testing.T) {
	inv := NewSingleThreadDispatchInvoker()

	var ran [3]bool
	for i := range ran {
		i := i
		inv.RunDispatch(func() { ran[i] = true })
	}

	inv.Close()
	for i, v := range ran {
		assert.True(t, v, "closure %d was not run before Close returned", i)
	}
}

func TestSingleThreadDispatchInvoker_DropsAfterClose(t *testing.T) {
	inv := NewSingleThreadDispatchInvoker()
	inv.Close()

	ran := false
	assert.NotPanics(t, func() { inv.RunDispatch(func() { ran = true }) })
	assert.False(t, ran)
}

func TestInlineDispatchInvoker_RunsSynchronously(t *testing.T) {
	var ran bool
	InlineDispatchInvoker{}.RunDispatch(func() { ran = true })
	assert.True(t, ran)
}
