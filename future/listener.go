package future

import (
	"fmt"

	"github.com/joeycumines/go-future/executor"
)

// listenerNode is a Treiber-stack node recording either an ordinary
// (task, executor) listener, or - when delegate is non-nil - a delegation
// adapter installed by another Cell's DelegateTo call. The completion
// engine (completion.go) treats the two shapes differently: ordinary
// listeners are dispatched through their executor; delegate entries are
// unwound iteratively, never recursively.
type listenerNode[V any] struct {
	next     *listenerNode[V]
	task     func(Outcome[V])
	executor executor.Executor
	delegate *Cell[V]
}

// addListener is AddListener's lock-free CAS loop. If the listener stack
// has already been tombstoned, the node is dispatched immediately instead,
// on the calling goroutine.
func (c *Cell[V]) addListener(node *listenerNode[V]) {
	for {
		head := c.listeners.Load()
		if head == c.listenerTombstone {
			c.dispatchNow(node)
			return
		}
		node.next = head
		if c.listeners.CompareAndSwap(head, node) {
			return
		}
	}
}

// drainListeners atomically swaps the listener head for the tombstone and
// returns the captured chain reversed into insertion order. Once this
// returns, no further listener will ever be added to the stack.
func (c *Cell[V]) drainListeners() *listenerNode[V] {
	chain := c.listeners.Swap(c.listenerTombstone)
	var prev *listenerNode[V]
	for n := chain; n != nil; {
		next := n.next
		n.next = prev
		prev = n
		n = next
	}
	return prev
}

// dispatchNow runs a single ordinary listener through its executor,
// recovering any panic from either the executor or the listener itself.
func (c *Cell[V]) dispatchNow(node *listenerNode[V]) {
	if node.delegate != nil {
		// Only reachable via a delegate entry that raced completion; see
		// addDelegateListener's tombstone branch, which handles this case
		// directly instead of routing through here.
		return
	}
	outcome := c.snapshotOutcome()
	exec := node.executor
	func() {
		defer func() {
			if r := recover(); r != nil {
				c.logListenerPanic(node, r)
			}
		}()
		exec.Execute(func() {
			defer func() {
				if r := recover(); r != nil {
					c.logListenerPanic(node, r)
				}
			}()
			node.task(outcome)
		})
	}()
}

func (c *Cell[V]) snapshotOutcome() Outcome[V] {
	rec := c.state.Load()
	return rec.outcome()
}

func (c *Cell[V]) logListenerPanic(node *listenerNode[V], r any) {
	if c.logger == nil || !c.logger.IsEnabled(LevelError) {
		return
	}
	c.logger.Log(Entry{
		Level:    LevelError,
		Message:  "listener panicked",
		Listener: typeName(node.task),
		Executor: typeName(node.executor),
		Err:      panicError{r},
	})
}

// panicError wraps a recovered panic value so it can be logged as an
// error and, when the panic value was itself an error, unwrapped with
// errors.Is/errors.As (grounded on eventloop/errors.go's PanicError).
type panicError struct{ value any }

func (p panicError) Error() string {
	return fmt.Sprintf("recovered panic: %v", p.value)
}

func (p panicError) Unwrap() error {
	if err, ok := p.value.(error); ok {
		return err
	}
	return nil
}

func typeName(v any) string {
	return fmt.Sprintf("%T", v)
}
