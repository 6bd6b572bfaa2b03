package executor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirect_Execute_RunsSynchronously(t *testing.T) {
	var ran bool
	Direct{}.Execute(func() { ran = true })
	assert.True(t, ran)
}

func TestGoroutine_Execute_Runs(t *testing.T) {
	done := make(chan struct{})
	Goroutine{}.Execute(func() { close(done) })
	<-done
}

func TestFunc_Execute_DelegatesToWrappedFunction(t *testing.T) {
	var got func()
	f := Func(func(task func()) { got = task })
	marker := func() {}
	f.Execute(marker)
	assert.NotNil(t, got)
}

func TestGoroutine_Execute_AllTasksRun(t *testing.T) {
	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		Goroutine{}.Execute(func() { wg.Done() })
	}
	wg.Wait()
}
