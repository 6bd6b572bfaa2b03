package catrate

import (
	"fmt"
	"sync"

	"golang.org/x/time/rate"

	"github.com/joeycumines/go-future/executor"
	"github.com/joeycumines/go-future/future"
)

// Gate pairs a golang.org/x/time/rate.Limiter factory with an Executor,
// turning rate.Limiter.Allow's non-blocking check into a future.Cell-shaped
// API: a rate-limited submission completes its Cell as cancelled instead of
// running, rather than blocking or silently dropping work.
//
// Limits are tracked independently per category (an arbitrary comparable
// key), each backed by its own *rate.Limiter constructed lazily on first
// use, in the style of sync.Map's LoadOrStore.
type Gate struct {
	limit    rate.Limit
	burst    int
	executor executor.Executor

	mu         sync.Mutex
	categories map[any]*rate.Limiter
}

// NewGate returns a Gate admitting up to limit events per second, per
// category, with bursts up to burst, dispatching admitted work to exec. A
// nil exec defaults to executor.Direct.
func NewGate(limit rate.Limit, burst int, exec executor.Executor) *Gate {
	if exec == nil {
		exec = executor.Direct{}
	}
	return &Gate{
		limit:      limit,
		burst:      burst,
		executor:   exec,
		categories: make(map[any]*rate.Limiter),
	}
}

// limiterFor returns the *rate.Limiter for category, constructing and
// storing one on first use.
func (g *Gate) limiterFor(category any) *rate.Limiter {
	g.mu.Lock()
	defer g.mu.Unlock()
	l, ok := g.categories[category]
	if !ok {
		l = rate.NewLimiter(g.limit, g.burst)
		g.categories[category] = l
	}
	return l
}

// RateLimitedError would describe why a Submit Cell was cancelled, but
// Cell.Cancel takes no cause parameter, so there is nowhere to attach one;
// RateLimitedError documents the shape for callers who want to wrap it
// themselves around the Cancel(false) result.
type RateLimitedError struct {
	Category any
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("catrate: category %v rate limited", e.Category)
}

// Submit reserves an event for category against the Gate's per-category
// limiter and, if admitted, runs fn on the Gate's Executor. A fn that
// panics completes the returned Cell as a failure rather than propagating
// into the executor, matching future.Submit's containment (see
// future/adapter.go). A rejected reservation completes the Cell as
// cancelled(false) immediately, and fn never runs.
func Submit[V any](g *Gate, category any, fn func() (V, error)) *future.Cell[V] {
	c := future.New[V]()

	if !g.limiterFor(category).Allow() {
		c.Cancel(false)
		return c
	}

	g.executor.Execute(func() {
		v, err := future.Submit(executor.Direct{}, fn).Get()
		if err != nil {
			c.SetFailure(err)
			return
		}
		c.Set(v)
	})
	return c
}
