package futures

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewThreadPollInvoker_RunsConcurrently(t *testing.T) {
	inv := NewThreadPollInvoker(0)
	defer inv.Close()

	var running atomic.Int32
	var maxSeen atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		inv.RunPoll(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				if cur := maxSeen.Load(); n > cur {
					if maxSeen.CompareAndSwap(cur, n) {
						break
					}
					continue
				}
				break
			}
			time.Sleep(10 * time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()

	assert.Greater(t, maxSeen.Load(), int32(1))
}

func TestNewThreadPollInvoker_RespectsLimit(t *testing.T) {
	inv := NewThreadPollInvoker(1)
	defer inv.Close()

	var running atomic.Int32
	var maxSeen atomic.Int32
	var wg sync.WaitGroup

	for i := 0; i < 4; i++ {
		wg.Add(1)
		inv.RunPoll(func() {
			defer wg.Done()
			n := running.Add(1)
			for {
				if cur := maxSeen.Load(); n > cur {
					if maxSeen.CompareAndSwap(cur, n) {
						break
					}
					continue
				}
				break
			}
			time.Sleep(5 * time.Millisecond)
			running.Add(-1)
		})
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxSeen.Load())
}

func TestDedicatedThreadPollInvoker_NeverOverlaps(t *testing.T) {
	inv := NewDedicatedThreadPollInvoker()
	defer inv.Close()

	var busy atomic.Bool
	var overlapped atomic.Bool
	var wg sync.WaitGroup

	for i := 0; i < 5; i++ {
		wg.Add(1)
		inv.RunPoll(func() {
			defer wg.Done()
			if !busy.CompareAndSwap(false, true) {
				overlapped.Store(true)
				return
			}
			time.Sleep(2 * time.Millisecond)
			busy.Store(false)
		})
	}
	wg.Wait()

	assert.False(t, overlapped.Load())
}

func TestInlinePollInvoker_RunsSynchronously(t *testing.T) {
	var ran bool
	InlinePollInvoker{}.RunPoll(func() { ran = true })
	assert.True(t, ran)
}
