package executor

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSerial_PreservesFIFOOrder(t *testing.T) {
	s := NewSerial(Direct{})
	var (
		mu    sync.Mutex
		order []int
	)
	for i := 0; i < 10; i++ {
		i := i
		s.Execute(func() {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		})
	}
	require.Len(t, order, 10)
	for i, v := range order {
		assert.Equal(t, i, v)
	}
}

func TestSerial_NilUnderlyingDefaultsToDirect(t *testing.T) {
	s := NewSerial(nil)
	var ran bool
	s.Execute(func() { ran = true })
	assert.True(t, ran)
}

func TestSerial_ReentrantExecuteDoesNotRecurse(t *testing.T) {
	s := NewSerial(Direct{})
	var calls int32
	var done sync.WaitGroup
	done.Add(1)

	s.Execute(func() {
		atomic.AddInt32(&calls, 1)
		// reentrant call: must be queued, not executed via recursion into
		// this same drain loop.
		s.Execute(func() {
			atomic.AddInt32(&calls, 1)
			done.Done()
		})
	})

	done.Wait()
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestSerial_ConcurrentSubmissionsAllRun(t *testing.T) {
	s := NewSerial(Goroutine{})
	const n = 200
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go s.Execute(func() { wg.Done() })
	}
	wg.Wait()
}
