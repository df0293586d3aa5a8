// Copyright 2020 Ahmad Sameh(asmsh)
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package futures extends a single-shot asynchronous result, Future[T],
// with non-blocking composition: attaching continuations, chaining
// continuations that themselves return a Future, combining many Futures,
// observing a Future as a side effect, and bounding the wait with a
// deadline.
//
// The composition surface (Then, ThenChain, AllSlice, AllRange,
// AllTuple2..4, Observe) is intentionally thin. The real content of this
// package is the PollingExecutor: the scheduler that multiplexes many
// outstanding Futures onto a small, bounded set of goroutines using timed
// waits instead of blocking waits.
//
// # States
//
// A Future[T] is, at any time, either pending or settled. Once settled (by
// its paired Resolver's Resolve or Reject method), its value never changes,
// and TimedWait will report ready immediately and forever after.
//
// A Waitable, the executor's unit of work, additionally tracks whether it
// has been dispatched. Dispatch runs at most once per Waitable; running it
// twice is a programming error and panics.
//
// # Composition adapters
//
// Then attaches a plain continuation. ThenChain attaches a continuation
// that itself returns a Future, and forwards that inner Future's eventual
// result to the caller without blocking the executor on it. AllSlice,
// AllRange, and AllTuple2..4 combine several Futures into one. Observe
// attaches a continuation purely for its side effects; it has no outgoing
// Future, so a panic inside it (or a dispatch error such as a timeout)
// propagates on the dispatch goroutine by default.
//
// # Executors
//
// A PollingExecutor owns a poll invoker (decides which goroutine drives the
// poll loop) and a dispatch invoker (decides which goroutine runs a ready
// Waitable's Dispatch). NewDefaultExecutor returns one configured with a
// bounded new-goroutine-per-poll invoker and a single dedicated dispatch
// goroutine, which is the right choice for most callers.
//
// A scoped default registry (PushDefaultExecutor/PopDefaultExecutor/
// CurrentExecutor) lets convenience overloads of the composition functions
// omit the executor argument.
package futures
