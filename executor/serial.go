package executor

import "sync/atomic"

// Serial serializes a stream of submissions onto an underlying executor
// without unbounded stack growth when that executor happens to be Direct.
//
// Tasks are pushed onto a Treiber stack; whichever goroutine wins a CAS on
// owner becomes the sole drainer and runs a plain loop, never recursing. A
// task that itself calls Execute just pushes onto the stack and loses the
// owner CAS (the drain loop is already running), so Serial never grows the
// call stack regardless of how many tasks chain into each other - the same
// single-flight-launch idiom as an atomic.CompareAndSwap-guarded worker
// start, generalized from "start a worker once" to "become the sole
// drainer of a growing queue".
type Serial struct {
	underlying Executor
	owner      atomic.Bool
	head       atomic.Pointer[serialNode]
}

type serialNode struct {
	next *serialNode
	task func()
}

// NewSerial returns a Serial that dispatches drained tasks onto underlying.
// A nil underlying defaults to Direct.
func NewSerial(underlying Executor) *Serial {
	if underlying == nil {
		underlying = Direct{}
	}
	return &Serial{underlying: underlying}
}

// Execute enqueues task and, if no drain loop is currently running,
// becomes the drainer for this and any task queued while draining.
func (s *Serial) Execute(task func()) {
	node := &serialNode{task: task}
	for {
		head := s.head.Load()
		node.next = head
		if s.head.CompareAndSwap(head, node) {
			break
		}
	}
	s.tryDrain()
}

func (s *Serial) tryDrain() {
	if !s.owner.CompareAndSwap(false, true) {
		// another goroutine is already draining (possibly this same
		// goroutine, one frame up) - it will observe our push.
		return
	}
	for {
		chain := s.head.Swap(nil)
		// reverse so FIFO submission order is preserved
		var prev *serialNode
		for n := chain; n != nil; {
			next := n.next
			n.next = prev
			prev = n
			n = next
		}
		for n := prev; n != nil; n = n.next {
			s.underlying.Execute(n.task)
		}
		s.owner.Store(false)
		if s.head.Load() == nil {
			return
		}
		if !s.owner.CompareAndSwap(false, true) {
			// someone else grabbed ownership in the gap; they'll drain
			return
		}
	}
}
