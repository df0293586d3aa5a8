package futures

import (
	"time"

	"golang.org/x/sync/errgroup"
)

// timedWaitAll fans out one TimedWait per input, each given the full
// quantum, rather than dividing q by len(inputs): the inputs are
// independent, so waiting on them concurrently gets every one of them a
// real look within q instead of a sliver of it.
func timedWaitAll[T any](inputs []*Future[T], q time.Duration) bool {
	ready := make([]bool, len(inputs))
	var g errgroup.Group
	for i, in := range inputs {
		i, in := i, in
		g.Go(func() error {
			ready[i] = in.TimedWait(q)
			return nil
		})
	}
	g.Wait()

	for _, r := range ready {
		if !r {
			return false
		}
	}
	return true
}

// allSlice is the AllSlice<T> adapter: it becomes ready once every input
// is ready, and fails fast, rejecting the outgoing Resolver with the
// first error it finds rather than collecting partial results.
type allSlice[T any] struct {
	*TimedWaitable
	inputs []*Future[T]
	out    *Resolver[[]T]
}

// AllSlice attaches to every Future in inputs and settles to their values,
// in order, once they are all ready. If any input fails, the returned
// Future is rejected with that input's error and the others' values are
// discarded. A nil or empty inputs settles immediately with an empty
// slice.
func AllSlice[T any](executor Executor, deadline time.Time, inputs []*Future[T]) *Future[[]T] {
	if len(inputs) == 0 {
		return FromValue([]T{})
	}

	out, resolver := NewFuture[[]T]()
	a := &allSlice[T]{inputs: inputs, out: resolver}
	a.TimedWaitable = newTimedWaitableWithDeadline(deadline, a.timedWait, a.dispatch)
	executor.Watch(a)
	return out
}

// AllSliceOn is AllSlice with the deadline defaulted to one hour from now.
func AllSliceOn[T any](executor Executor, inputs []*Future[T]) *Future[[]T] {
	return AllSlice(executor, time.Now().Add(defaultWaitLimit), inputs)
}

// AllSliceAt is AllSlice with the executor defaulted from the scoped
// registry.
func AllSliceAt[T any](deadline time.Time, inputs []*Future[T]) *Future[[]T] {
	return AllSlice(currentExecutorOrPanic(), deadline, inputs)
}

// AllSliceDefault is AllSlice with both the executor and the deadline
// defaulted.
func AllSliceDefault[T any](inputs []*Future[T]) *Future[[]T] {
	return AllSlice(currentExecutorOrPanic(), time.Now().Add(defaultWaitLimit), inputs)
}

func (a *allSlice[T]) timedWait(q time.Duration) (bool, error) {
	return timedWaitAll(a.inputs, q), nil
}

func (a *allSlice[T]) dispatch(err error) {
	if err != nil {
		a.out.Reject(err)
		return
	}

	values := make([]T, len(a.inputs))
	for i, in := range a.inputs {
		val, inErr := in.Get()
		if inErr != nil {
			a.out.Reject(inErr)
			return
		}
		values[i] = val
	}
	a.out.Resolve(values)
}

// Range is the result of AllRange: the settled values of the Futures in
// [start, end), aligned by position within that sub-range, alongside the
// first error encountered, if any. Values at or past the position of the
// first failing input are left at their zero value. Unlike AllSlice,
// AllRange never fails the outgoing Future itself on an input's error;
// the error is reported through Range.Err instead, so a caller can still
// read whichever values did settle.
type Range[T any] struct {
	Values []T
	Err    error
}

// allRange is the AllRange<T> adapter: like allSlice, but scoped to a
// borrowed slice's [start, end) sub-range, and reporting partial results
// through Range rather than failing the whole Future on the first error.
type allRange[T any] struct {
	*TimedWaitable
	inputs []*Future[T]
	out    *Resolver[Range[T]]
}

// AllRange attaches to inputs[start:end] and settles once every Future in
// that sub-range is ready. inputs is not copied; the caller must not
// mutate it before the returned Future settles. It panics if start/end
// are out of bounds for inputs.
func AllRange[T any](executor Executor, deadline time.Time, inputs []*Future[T], start, end int) *Future[Range[T]] {
	span := inputs[start:end]
	if len(span) == 0 {
		return FromValue(Range[T]{})
	}

	out, resolver := NewFuture[Range[T]]()
	a := &allRange[T]{inputs: span, out: resolver}
	a.TimedWaitable = newTimedWaitableWithDeadline(deadline, a.timedWait, a.dispatch)
	executor.Watch(a)
	return out
}

// AllRangeOn is AllRange with the deadline defaulted to one hour from now.
func AllRangeOn[T any](executor Executor, inputs []*Future[T], start, end int) *Future[Range[T]] {
	return AllRange(executor, time.Now().Add(defaultWaitLimit), inputs, start, end)
}

// AllRangeAt is AllRange with the executor defaulted from the scoped
// registry.
func AllRangeAt[T any](deadline time.Time, inputs []*Future[T], start, end int) *Future[Range[T]] {
	return AllRange(currentExecutorOrPanic(), deadline, inputs, start, end)
}

// AllRangeDefault is AllRange with both the executor and the deadline
// defaulted.
func AllRangeDefault[T any](inputs []*Future[T], start, end int) *Future[Range[T]] {
	return AllRange(currentExecutorOrPanic(), time.Now().Add(defaultWaitLimit), inputs, start, end)
}

func (a *allRange[T]) timedWait(q time.Duration) (bool, error) {
	return timedWaitAll(a.inputs, q), nil
}

func (a *allRange[T]) dispatch(err error) {
	if err != nil {
		a.out.Reject(err)
		return
	}

	values := make([]T, len(a.inputs))
	for i, in := range a.inputs {
		val, inErr := in.Get()
		if inErr != nil {
			a.out.Resolve(Range[T]{Values: values, Err: inErr})
			return
		}
		values[i] = val
	}
	a.out.Resolve(Range[T]{Values: values})
}

// Tuple2 through Tuple4 are the settled values of AllTuple2 through
// AllTuple4's inputs, one field per input, in argument order.
type Tuple2[T1, T2 any] struct {
	V1 T1
	V2 T2
}

type Tuple3[T1, T2, T3 any] struct {
	V1 T1
	V2 T2
	V3 T3
}

type Tuple4[T1, T2, T3, T4 any] struct {
	V1 T1
	V2 T2
	V3 T3
	V4 T4
}

// tupleInput is the type-erased view an AllTupleN adapter needs of each of
// its heterogeneously-typed inputs: whether it's ready yet, and a way to
// fetch its error without knowing its value type.
type tupleInput interface {
	TimedWait(q time.Duration) bool
	err() error
}

type tupleInputFor[T any] struct {
	f *Future[T]
}

func (t tupleInputFor[T]) TimedWait(q time.Duration) bool { return t.f.TimedWait(q) }
func (t tupleInputFor[T]) err() error                     { _, err := t.f.Get(); return err }

type allTuple[TOut any] struct {
	*TimedWaitable
	inputs []tupleInput
	settle func() (TOut, error)
	out    *Resolver[TOut]
}

func newAllTuple[TOut any](
	executor Executor,
	deadline time.Time,
	inputs []tupleInput,
	settle func() (TOut, error),
) *Future[TOut] {
	out, resolver := NewFuture[TOut]()
	a := &allTuple[TOut]{inputs: inputs, settle: settle, out: resolver}
	a.TimedWaitable = newTimedWaitableWithDeadline(deadline, a.timedWait, a.dispatch)
	executor.Watch(a)
	return out
}

func (a *allTuple[TOut]) timedWait(q time.Duration) (bool, error) {
	ready := make([]bool, len(a.inputs))
	var g errgroup.Group
	for i, in := range a.inputs {
		i, in := i, in
		g.Go(func() error {
			ready[i] = in.TimedWait(q)
			return nil
		})
	}
	g.Wait()
	for _, r := range ready {
		if !r {
			return false, nil
		}
	}
	return true, nil
}

func (a *allTuple[TOut]) dispatch(err error) {
	if err != nil {
		a.out.Reject(err)
		return
	}
	for _, in := range a.inputs {
		if inErr := in.err(); inErr != nil {
			a.out.Reject(inErr)
			return
		}
	}
	val, settleErr := a.settle()
	if settleErr != nil {
		a.out.Reject(settleErr)
		return
	}
	a.out.Resolve(val)
}

// AllTuple2 attaches to in1 and in2 and settles to a Tuple2 of their
// values once both are ready, or to the first of their errors.
func AllTuple2[T1, T2 any](
	executor Executor,
	deadline time.Time,
	in1 *Future[T1],
	in2 *Future[T2],
) *Future[Tuple2[T1, T2]] {
	return newAllTuple(
		executor, deadline,
		[]tupleInput{tupleInputFor[T1]{in1}, tupleInputFor[T2]{in2}},
		func() (Tuple2[T1, T2], error) {
			v1, err1 := in1.Get()
			if err1 != nil {
				return Tuple2[T1, T2]{}, err1
			}
			v2, err2 := in2.Get()
			if err2 != nil {
				return Tuple2[T1, T2]{}, err2
			}
			return Tuple2[T1, T2]{V1: v1, V2: v2}, nil
		},
	)
}

// AllTuple3 attaches to in1 through in3 and settles to a Tuple3 of their
// values once all are ready, or to the first of their errors.
func AllTuple3[T1, T2, T3 any](
	executor Executor,
	deadline time.Time,
	in1 *Future[T1],
	in2 *Future[T2],
	in3 *Future[T3],
) *Future[Tuple3[T1, T2, T3]] {
	return newAllTuple(
		executor, deadline,
		[]tupleInput{tupleInputFor[T1]{in1}, tupleInputFor[T2]{in2}, tupleInputFor[T3]{in3}},
		func() (Tuple3[T1, T2, T3], error) {
			v1, err1 := in1.Get()
			if err1 != nil {
				return Tuple3[T1, T2, T3]{}, err1
			}
			v2, err2 := in2.Get()
			if err2 != nil {
				return Tuple3[T1, T2, T3]{}, err2
			}
			v3, err3 := in3.Get()
			if err3 != nil {
				return Tuple3[T1, T2, T3]{}, err3
			}
			return Tuple3[T1, T2, T3]{V1: v1, V2: v2, V3: v3}, nil
		},
	)
}

// AllTuple4 attaches to in1 through in4 and settles to a Tuple4 of their
// values once all are ready, or to the first of their errors.
func AllTuple4[T1, T2, T3, T4 any](
	executor Executor,
	deadline time.Time,
	in1 *Future[T1],
	in2 *Future[T2],
	in3 *Future[T3],
	in4 *Future[T4],
) *Future[Tuple4[T1, T2, T3, T4]] {
	return newAllTuple(
		executor, deadline,
		[]tupleInput{tupleInputFor[T1]{in1}, tupleInputFor[T2]{in2}, tupleInputFor[T3]{in3}, tupleInputFor[T4]{in4}},
		func() (Tuple4[T1, T2, T3, T4], error) {
			v1, err1 := in1.Get()
			if err1 != nil {
				return Tuple4[T1, T2, T3, T4]{}, err1
			}
			v2, err2 := in2.Get()
			if err2 != nil {
				return Tuple4[T1, T2, T3, T4]{}, err2
			}
			v3, err3 := in3.Get()
			if err3 != nil {
				return Tuple4[T1, T2, T3, T4]{}, err3
			}
			v4, err4 := in4.Get()
			if err4 != nil {
				return Tuple4[T1, T2, T3, T4]{}, err4
			}
			return Tuple4[T1, T2, T3, T4]{V1: v1, V2: v2, V3: v3, V4: v4}, nil
		},
	)
}
