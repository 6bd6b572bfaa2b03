// Package combinator provides Cell combinators built entirely on the
// future package's published surface (New, AddListener, Set, SetFailure,
// Cancel, DelegateTo): no combinator here ever reaches into a Cell's
// internals.
//
// The resolve/reject/adopt-state-of-another-promise shape is grounded on
// eventloop/promise.go's ChainedPromise: Then corresponds to addHandler
// plus executeHandler, and All/Any/Race correspond to JS.All/JS.Any/
// JS.Race, reworked to synchronize through a future.Cell instead of a
// promise's own mutex-protected subscriber list.
package combinator

import (
	"fmt"
	"sync/atomic"

	"github.com/joeycumines/go-future/executor"
	"github.com/joeycumines/go-future/future"
)

// Then returns a Cell that adopts the result of calling onOK (when src
// succeeds) or onFail (when src fails), run on exec. A nil onFail passes
// src's failure straight through unchanged; a nil onOK does not pass the
// value through (V is not W), and instead fails the returned cell with an
// error. Cancellation of src cancels the returned cell with the same
// interrupt flag.
func Then[V, W any](src *future.Cell[V], exec executor.Executor, onOK func(V) (W, error), onFail func(error) (W, error)) *future.Cell[W] {
	dst := future.New[W]()
	src.AddListener(func(o future.Outcome[V]) {
		switch o.Kind {
		case future.KindOK:
			if onOK == nil {
				dst.SetFailure(fmt.Errorf("combinator: Then has no onOK handler for a successful result"))
				return
			}
			w, err := onOK(o.Value)
			settleFrom(dst, w, err)
		case future.KindFail:
			if onFail == nil {
				dst.SetFailure(o.Err)
				return
			}
			w, err := onFail(o.Err)
			settleFrom(dst, w, err)
		case future.KindCancel:
			dst.Cancel(o.Interrupted)
		}
	}, exec)
	return dst
}

// Catch is Then with only a failure handler; a successful src passes its
// value through as W via convert.
func Catch[V, W any](src *future.Cell[V], exec executor.Executor, convert func(V) (W, error), onFail func(error) (W, error)) *future.Cell[W] {
	return Then(src, exec, convert, onFail)
}

// Finally runs onSettle, on exec, once src reaches any terminal state,
// then adopts src's outcome unchanged - grounded on ChainedPromise.Finally,
// which likewise never alters the settled value/reason it passes through.
func Finally[V any](src *future.Cell[V], exec executor.Executor, onSettle func()) *future.Cell[V] {
	dst := future.New[V]()
	src.AddListener(func(o future.Outcome[V]) {
		defer func() {
			switch o.Kind {
			case future.KindOK:
				dst.Set(o.Value)
			case future.KindFail:
				dst.SetFailure(o.Err)
			case future.KindCancel:
				dst.Cancel(o.Interrupted)
			}
		}()
		onSettle()
	}, exec)
	return dst
}

func settleFrom[W any](dst *future.Cell[W], v W, err error) {
	if err != nil {
		dst.SetFailure(err)
		return
	}
	dst.Set(v)
}

// All returns a Cell that succeeds with every input's value, in order,
// once all of them succeed, or fails on the first failure (grounded on
// JS.All). An empty input resolves immediately with an empty slice. A
// cancellation among the inputs is reported as a failure, not a
// cancellation of the returned cell, since "first to settle" among mixed
// outcome kinds has no canonical cancelled-or-failed answer here.
func All[V any](cells []*future.Cell[V], exec executor.Executor) *future.Cell[[]V] {
	dst := future.New[[]V]()
	if len(cells) == 0 {
		dst.Set(nil)
		return dst
	}

	values := make([]V, len(cells))
	var remaining atomic.Int32
	remaining.Store(int32(len(cells)))
	var failed atomic.Bool

	for i, c := range cells {
		i := i
		c.AddListener(func(o future.Outcome[V]) {
			switch o.Kind {
			case future.KindOK:
				values[i] = o.Value
				if remaining.Add(-1) == 0 && !failed.Load() {
					dst.Set(values)
				}
			case future.KindFail:
				if failed.CompareAndSwap(false, true) {
					dst.SetFailure(o.Err)
				}
			case future.KindCancel:
				if failed.CompareAndSwap(false, true) {
					dst.SetFailure(fmt.Errorf("combinator: All: input cancelled"))
				}
			}
		}, exec)
	}
	return dst
}

// Any returns a Cell that succeeds with the value of the first input to
// succeed, or fails once every input has failed or been cancelled
// (grounded on JS.Any / AggregateError). An empty input fails immediately.
func Any[V any](cells []*future.Cell[V], exec executor.Executor) *future.Cell[V] {
	dst := future.New[V]()
	if len(cells) == 0 {
		dst.SetFailure(fmt.Errorf("combinator: Any: no inputs"))
		return dst
	}

	var remaining atomic.Int32
	remaining.Store(int32(len(cells)))
	var resolved atomic.Bool

	for _, c := range cells {
		c.AddListener(func(o future.Outcome[V]) {
			switch o.Kind {
			case future.KindOK:
				if resolved.CompareAndSwap(false, true) {
					dst.Set(o.Value)
				}
			default:
				if remaining.Add(-1) == 0 && !resolved.Load() {
					dst.SetFailure(fmt.Errorf("combinator: Any: all inputs failed or were cancelled"))
				}
			}
		}, exec)
	}
	return dst
}

// Race returns a Cell that adopts the outcome of whichever input settles
// first (grounded on JS.Race). An empty input never settles.
func Race[V any](cells []*future.Cell[V], exec executor.Executor) *future.Cell[V] {
	dst := future.New[V]()
	var settled atomic.Bool
	for _, c := range cells {
		c.AddListener(func(o future.Outcome[V]) {
			if !settled.CompareAndSwap(false, true) {
				return
			}
			switch o.Kind {
			case future.KindOK:
				dst.Set(o.Value)
			case future.KindFail:
				dst.SetFailure(o.Err)
			case future.KindCancel:
				dst.Cancel(o.Interrupted)
			}
		}, exec)
	}
	return dst
}
