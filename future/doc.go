// Package future implements the Future Cell: a lock-free, listenable
// future primitive.
//
// A Cell represents the eventual outcome of a computation that may run
// concurrently with, or entirely separately from, its consumers. Any
// number of goroutines may register listeners that fire exactly once when
// the outcome is known, delegate one Cell's outcome to another (to
// unbounded chain depth, without growing the completing goroutine's
// stack), or block for the result with or without a deadline.
//
// All completion transitions - Set, SetFailure, Cancel, DelegateTo - are a
// single compare-and-swap on one atomic slot. Listener and waiter
// registries are Treiber stacks: lock-free, CAS-pushed, and tombstoned at
// completion so that no further push races a drain. No goroutine ever
// holds a lock across user code.
//
// Higher-level combinators (Then/Catch/Finally, All/Any/Race), thread-pool
// style executors, and rate limiting are deliberately not part of this
// package - see the sibling executor, combinator, and catrate packages,
// which consume only the published Cell contract.
package future
