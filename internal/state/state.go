// Package state tracks the two one-shot transitions every watchable value
// in this module goes through: becoming ready, and being dispatched (or,
// for a Future/Resolver pair, being settled).
//
// It is a smaller, purpose-built sibling of the bit-packed atomic status
// used elsewhere in this lineage for promise fate tracking: instead of a
// multi-section status word, it tracks exactly the two sticky bits the
// executor's invariants need, using the same lock-via-atomic-CAS technique.
package state

import "sync/atomic"

const (
	readyBit      uint32 = 1 << 0
	dispatchedBit uint32 = 1 << 1
)

// Waitable tracks the sticky-ready and dispatch-once bits required by the
// Waitable contract: once ready, Wait must keep reporting ready; Dispatch
// must run exactly once.
type Waitable struct {
	bits atomic.Uint32
}

// MarkReady sets the ready bit. It is idempotent; it reports whether this
// call is the one that transitioned the value from not-ready to ready.
func (w *Waitable) MarkReady() (transitioned bool) {
	for {
		cur := w.bits.Load()
		if cur&readyBit != 0 {
			return false
		}
		if w.bits.CompareAndSwap(cur, cur|readyBit) {
			return true
		}
	}
}

// IsReady reports whether MarkReady has ever been called.
func (w *Waitable) IsReady() bool {
	return w.bits.Load()&readyBit != 0
}

// MarkDispatched sets the dispatched bit. It reports false if the bit was
// already set, which the caller must treat as a programming error.
func (w *Waitable) MarkDispatched() (ok bool) {
	for {
		cur := w.bits.Load()
		if cur&dispatchedBit != 0 {
			return false
		}
		if w.bits.CompareAndSwap(cur, cur|dispatchedBit|readyBit) {
			return true
		}
	}
}

// IsDispatched reports whether MarkDispatched has ever succeeded.
func (w *Waitable) IsDispatched() bool {
	return w.bits.Load()&dispatchedBit != 0
}

// Settlement tracks the one-shot settle transition of a Future/Resolver
// pair: whichever of Resolve/Reject runs first wins, and any further call
// is a programming error.
type Settlement struct {
	bits atomic.Uint32
}

const settledBit uint32 = 1 << 0

// MarkSettled reports whether this call is the one that settles the value.
func (s *Settlement) MarkSettled() (ok bool) {
	return s.bits.CompareAndSwap(0, settledBit)
}

// IsSettled reports whether MarkSettled has ever succeeded.
func (s *Settlement) IsSettled() bool {
	return s.bits.Load()&settledBit != 0
}
