package futures

import "sync"

// defaultExecutors is the scoped registry backing the *At and *Default
// composition overloads. It is a plain LIFO stack guarded by a mutex,
// the Go rendering of the scope-guard registry in the system this
// package's design is based on, which uses RAII instead.
var defaultExecutors struct {
	mu    sync.Mutex
	stack []Executor
}

// PushDefaultExecutor makes e the current default executor for every
// composition overload that omits an explicit executor, until the
// returned pop function is called. Nested pushes are allowed; the returned
// pop removes e only while e is still the most recently pushed executor,
// and does nothing otherwise or when called a second time.
func PushDefaultExecutor(e Executor) (pop func()) {
	defaultExecutors.mu.Lock()
	defaultExecutors.stack = append(defaultExecutors.stack, e)
	depth := len(defaultExecutors.stack)
	defaultExecutors.mu.Unlock()

	var popped bool
	return func() {
		if popped {
			return
		}
		popped = true
		popDefaultExecutorAt(depth)
	}
}

// PopDefaultExecutor removes the most recently pushed default executor.
// It panics if the registry is empty.
func PopDefaultExecutor() {
	defaultExecutors.mu.Lock()
	defer defaultExecutors.mu.Unlock()
	n := len(defaultExecutors.stack)
	if n == 0 {
		panic("futures: PopDefaultExecutor called on an empty registry")
	}
	defaultExecutors.stack = defaultExecutors.stack[:n-1]
}

// popDefaultExecutorAt removes the entry at depth if it is still the top
// of the stack. Calling the pop closure out of order (an earlier push
// popped while a later one is still on top) silently does nothing, matching a defer-stack's LIFO discipline
// instead of panicking on misuse.
func popDefaultExecutorAt(depth int) {
	defaultExecutors.mu.Lock()
	defer defaultExecutors.mu.Unlock()
	if len(defaultExecutors.stack) != depth {
		return
	}
	defaultExecutors.stack = defaultExecutors.stack[:depth-1]
}

// CurrentExecutor returns the most recently pushed default executor, and
// false if the registry is empty.
func CurrentExecutor() (Executor, bool) {
	defaultExecutors.mu.Lock()
	defer defaultExecutors.mu.Unlock()
	n := len(defaultExecutors.stack)
	if n == 0 {
		return nil, false
	}
	return defaultExecutors.stack[n-1], true
}

func currentExecutorOrPanic() Executor {
	e, ok := CurrentExecutor()
	if !ok {
		panic(errDefaultExecutorMissing)
	}
	return e
}

func currentPollingExecutorOrPanic() *PollingExecutor {
	e := currentExecutorOrPanic()
	pe, ok := e.(*PollingExecutor)
	if !ok {
		panic("futures: the current default executor is not a *PollingExecutor")
	}
	return pe
}
