package future

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-future/executor"
)

// Awaitable is the minimal contract DelegateToAwaitable accepts: anything
// that can report whether it is done, fire a listener exactly once on
// completion, and (best-effort) be cancelled. Every *Cell[V] satisfies
// this; so can a type from outside this package, at the cost of the
// iterative delegation-chain unwind that DelegateTo gets for the
// same-type case (see delegate.go's TrustedFuture fast path).
type Awaitable[V any] interface {
	IsDone() bool
	AddListener(task func(Outcome[V]), exec executor.Executor)
	Cancel(interrupt bool) bool
}

// Cell is the Future Cell: a lock-free, listenable future over an outcome
// of type V. The zero Cell is not usable; construct one with New.
type Cell[V any] struct {
	state     atomic.Pointer[stateRecord[V]]
	listeners atomic.Pointer[listenerNode[V]]
	waiters   atomic.Pointer[waiterNode]

	// per-instance tombstone sentinels: a pointer distinguishable from any
	// real node, unique to this Cell, so Cells never share a tombstone
	// identity with each other.
	listenerTombstone *listenerNode[V]
	waiterTombstone   *waiterNode

	logger        Logger
	interruptHook func()
	doneHook      func()
}

// New constructs a pending Cell, applying opts in order.
func New[V any](opts ...Option[V]) *Cell[V] {
	c := &Cell[V]{
		listenerTombstone: &listenerNode[V]{},
		waiterTombstone:   &waiterNode{},
		logger:            NoopLogger{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Set completes the cell successfully with v. Returns true if this call
// won the completion race; false if the cell was already terminal or
// delegating (Set only succeeds from PENDING).
func (c *Cell[V]) Set(v V) bool {
	if !c.state.CompareAndSwap(nil, &stateRecord[V]{kind: iOK, value: v}) {
		return false
	}
	c.complete()
	return true
}

// SetFailure completes the cell with a failure. err must be non-nil.
// Returns true if this call won the completion race.
func (c *Cell[V]) SetFailure(err error) bool {
	if err == nil {
		panic("future: SetFailure called with a nil error")
	}
	if !c.state.CompareAndSwap(nil, &stateRecord[V]{kind: iFail, err: err}) {
		return false
	}
	c.complete()
	return true
}

// Cancel completes the cell as cancelled. interrupt selects whether the
// interrupt hook runs, and is reported back via WasInterrupted. Cancel
// succeeds from PENDING or DELEGATING (unlike Set/SetFailure); if the
// cell was delegating, the upstream is best-effort cancelled too (the
// surviving CAS on the upstream's own state slot settles whether that
// actually takes effect).
func (c *Cell[V]) Cancel(interrupt bool) bool {
	old := c.state.Load()
	if old != nil && old.kind != iDelegating {
		return false
	}
	rec := &stateRecord[V]{kind: iCancel, interrupted: interrupt}
	if !c.state.CompareAndSwap(old, rec) {
		return false
	}
	if old != nil {
		switch {
		case old.upstream != nil:
			old.upstream.cancelTrusted(interrupt)
		case old.foreign != nil:
			old.foreign.Cancel(interrupt)
		}
	}
	c.complete()
	return true
}

// cancelTrusted walks a chain of same-type delegations with a plain loop,
// cancelling each hop that is still pending or delegating by mutating its
// state slot directly, never by recursing back through Cancel. Because
// every hop in this walk is known to be a *Cell[V] from this package, the
// chain can be driven to arbitrary depth at O(1) additional stack depth -
// the same iterative shape the completion engine uses for forward
// delegation unwinding. The walk only reaches back into recursion, bounded
// to a single call, at the point it hits a foreign Awaitable, whose own
// chain (if any) is opaque to this package.
func (c *Cell[V]) cancelTrusted(interrupt bool) {
	for {
		old := c.state.Load()
		if old != nil && old.kind != iDelegating {
			return
		}
		rec := &stateRecord[V]{kind: iCancel, interrupted: interrupt}
		if !c.state.CompareAndSwap(old, rec) {
			return
		}
		var next *Cell[V]
		if old != nil {
			switch {
			case old.upstream != nil:
				next = old.upstream
			case old.foreign != nil:
				old.foreign.Cancel(interrupt)
			}
		}
		c.complete()
		if next == nil {
			return
		}
		c = next
	}
}

// IsDone reports whether the cell holds a terminal outcome. It returns
// false while PENDING or DELEGATING - delegation is never observable
// through the public surface.
func (c *Cell[V]) IsDone() bool {
	rec := c.state.Load()
	return rec != nil && rec.kind != iDelegating
}

// IsCancelled reports whether the terminal outcome is a cancellation.
func (c *Cell[V]) IsCancelled() bool {
	rec := c.state.Load()
	return rec != nil && rec.kind == iCancel
}

// WasInterrupted reports whether the cancellation requested interruption.
// Returns false if the cell is not cancelled.
func (c *Cell[V]) WasInterrupted() bool {
	rec := c.state.Load()
	return rec != nil && rec.kind == iCancel && rec.interrupted
}

// AddListener registers task to run on exec exactly once, when the cell
// completes. If the cell is already terminal, task runs immediately,
// inline, dispatched through exec.
func (c *Cell[V]) AddListener(task func(Outcome[V]), exec executor.Executor) {
	c.addListener(&listenerNode[V]{task: task, executor: exec})
}

// Get blocks until the cell completes, then decodes its outcome: the
// value for KindOK, an *ExecutionError for KindFail, a *CancellationError
// for KindCancel.
func (c *Cell[V]) Get() (V, error) {
	if rec := c.state.Load(); rec != nil && rec.kind != iDelegating {
		return rec.decode()
	}
	node := newWaiterNode()
	if c.pushWaiter(node) {
		<-node.ch
	}
	rec := c.state.Load()
	return rec.decode()
}

// maxSafeWait clamps timed waits to avoid overflow in the underlying timer
// machinery for pathologically large durations.
const maxSafeWait = 68 * 365 * 24 * time.Hour

// GetTimed blocks until the cell completes or timeout elapses, whichever
// comes first. If the deadline elapses first, returns a *TimeoutError and
// leaves the cell pending.
func (c *Cell[V]) GetTimed(timeout time.Duration) (V, error) {
	if rec := c.state.Load(); rec != nil && rec.kind != iDelegating {
		return rec.decode()
	}
	if timeout > maxSafeWait {
		timeout = maxSafeWait
	}
	if timeout <= 0 {
		if rec := c.state.Load(); rec != nil && rec.kind != iDelegating {
			return rec.decode()
		}
		var zero V
		return zero, &TimeoutError{}
	}
	node := newWaiterNode()
	if !c.pushWaiter(node) {
		rec := c.state.Load()
		return rec.decode()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-node.ch:
		rec := c.state.Load()
		return rec.decode()
	case <-timer.C:
		// best-effort, lazy removal: node stays on the stack until
		// drained by eventual completion.
		if rec := c.state.Load(); rec != nil && rec.kind != iDelegating {
			return rec.decode()
		}
		var zero V
		return zero, &TimeoutError{}
	}
}

// GetContext blocks until the cell completes or ctx is done, whichever
// comes first. If ctx is done first, returns an *InterruptionError wrapping
// ctx.Err() and leaves the cell pending. This has no analogue in the
// source API; it is an idiomatic Go addition.
func (c *Cell[V]) GetContext(ctx context.Context) (V, error) {
	if rec := c.state.Load(); rec != nil && rec.kind != iDelegating {
		return rec.decode()
	}
	node := newWaiterNode()
	if !c.pushWaiter(node) {
		rec := c.state.Load()
		return rec.decode()
	}
	select {
	case <-node.ch:
		rec := c.state.Load()
		return rec.decode()
	case <-ctx.Done():
		if rec := c.state.Load(); rec != nil && rec.kind != iDelegating {
			return rec.decode()
		}
		var zero V
		return zero, &InterruptionError{Cause: ctx.Err()}
	}
}

// String renders a diagnostic summary of the cell's current status. It
// never blocks and is safe to call concurrently with any other method.
func (c *Cell[V]) String() string {
	return renderCell(c, make(map[*Cell[V]]bool))
}
