// Package executor provides the executor implementations consumed by a
// future.Cell's listener registry. The cell never creates threads of its
// own; every listener runs on whatever executor its caller supplied.
//
// This package only consumes the Cell's published AddListener contract,
// never its internals.
package executor

// Executor is the contract a future.Cell consumes when dispatching a
// listener. Execute must eventually run task; any panic or rejection it
// produces is the caller's responsibility to recover (future.Cell does so
// around every dispatch).
type Executor interface {
	Execute(task func())
}

// Func adapts a plain function to the Executor interface.
type Func func(task func())

// Execute implements Executor.
func (f Func) Execute(task func()) { f(task) }

// Direct runs the task synchronously on the calling goroutine. It is the
// cheapest possible executor and is appropriate for small listeners; a
// listener that runs on a Direct executor executes under the completing
// goroutine's protection against delegation-chain stack growth, but a
// Direct listener that blocks will itself block the completing goroutine
// and every other listener queued behind it.
type Direct struct{}

// Execute runs task immediately, on the calling goroutine.
func (Direct) Execute(task func()) { task() }

// Goroutine runs each task on its own goroutine. Appropriate for listeners
// that may block or run for a meaningful amount of time; offers no
// ordering guarantee between tasks.
type Goroutine struct{}

// Execute launches task on a new goroutine.
func (Goroutine) Execute(task func()) { go task() }
