package future

import "github.com/joeycumines/go-future/executor"

// Submit runs fn on exec and returns a Cell that completes with its result.
// A panic inside fn completes the cell as a failure wrapping the recovered
// value, rather than propagating into exec.
func Submit[V any](exec executor.Executor, fn func() (V, error), opts ...Option[V]) *Cell[V] {
	c := New(opts...)
	exec.Execute(func() {
		v, err := runCatchingPanic(fn)
		if err != nil {
			c.SetFailure(err)
			return
		}
		c.Set(v)
	})
	return c
}

func runCatchingPanic[V any](fn func() (V, error)) (v V, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = panicError{r}
		}
	}()
	return fn()
}
