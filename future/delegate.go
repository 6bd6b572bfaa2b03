package future

import "github.com/joeycumines/go-future/executor"

// DelegateTo puts c into the DELEGATING state, adopting upstream's eventual
// outcome. It returns true if this call won the race to delegate c; false
// if c was already terminal or delegating.
//
// This is the trusted, same-type fast path: because upstream is a *Cell[V]
// from this package, its completion can install c directly into the
// worklist-driven completion engine (completion.go), so completing a chain
// of any depth takes O(1) additional stack depth instead of recursing
// through AddListener for every hop. Compare DelegateToAwaitable below.
func (c *Cell[V]) DelegateTo(upstream *Cell[V]) bool {
	if upstream == c {
		panic("future: cannot delegate a cell to itself")
	}
	rec := &stateRecord[V]{kind: iDelegating, upstream: upstream}
	if !c.state.CompareAndSwap(nil, rec) {
		return false
	}
	upstream.addDelegateListener(c)
	return true
}

// DelegateToAwaitable is DelegateTo's fallback for an upstream that isn't a
// *Cell[V] from this package - any type satisfying Awaitable. It pays one
// extra, bounded stack frame per hop (an ordinary AddListener dispatch)
// since a foreign Awaitable can't be folded into the iterative worklist.
func (c *Cell[V]) DelegateToAwaitable(upstream Awaitable[V]) bool {
	rec := &stateRecord[V]{kind: iDelegating, foreign: upstream}
	if !c.state.CompareAndSwap(nil, rec) {
		return false
	}
	upstream.AddListener(func(outcome Outcome[V]) {
		transcribed := transcribeOutcome(outcome)
		old := c.state.Load()
		if old == nil || old.kind != iDelegating {
			return
		}
		if !c.state.CompareAndSwap(old, transcribed) {
			return
		}
		c.complete()
	}, executor.Direct{})
	return true
}

// addDelegateListener installs downstream as a delegate entry on c's
// listener stack, to be picked up by c's completion engine. If c is
// already terminal, the transcription and downstream completion happen
// immediately instead, still via the iterative engine (c.complete/settle),
// never by recursing into downstream.complete directly from here.
func (c *Cell[V]) addDelegateListener(downstream *Cell[V]) {
	node := &listenerNode[V]{delegate: downstream}
	for {
		head := c.listeners.Load()
		if head == c.listenerTombstone {
			rec := c.state.Load()
			transcribed := transcribe(rec)
			old := downstream.state.Load()
			if old == nil || old.kind != iDelegating {
				return
			}
			if !downstream.state.CompareAndSwap(old, transcribed) {
				return
			}
			downstream.complete()
			return
		}
		node.next = head
		if c.listeners.CompareAndSwap(head, node) {
			return
		}
	}
}
