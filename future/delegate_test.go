package future

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joeycumines/go-future/executor"
)

func TestDelegateTo_TranscribesSuccess(t *testing.T) {
	upstream := New[int]()
	downstream := New[int]()
	require.True(t, downstream.DelegateTo(upstream))
	assert.False(t, downstream.IsDone())

	upstream.Set(5)

	v, err := downstream.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, v)
}

func TestDelegateTo_TranscribesFailure(t *testing.T) {
	upstream := New[int]()
	downstream := New[int]()
	require.True(t, downstream.DelegateTo(upstream))

	cause := errors.New("upstream died")
	upstream.SetFailure(cause)

	_, err := downstream.Get()
	require.Error(t, err)
	assert.True(t, errors.Is(err, cause))
}

func TestDelegateTo_InterruptedNeverCrossesBoundary(t *testing.T) {
	upstream := New[int]()
	downstream := New[int]()
	require.True(t, downstream.DelegateTo(upstream))

	upstream.Cancel(true)

	assert.True(t, downstream.IsCancelled())
	assert.False(t, downstream.WasInterrupted())
	assert.True(t, upstream.WasInterrupted())
}

func TestDelegateTo_AlreadyTerminalUpstream(t *testing.T) {
	upstream := New[int]()
	upstream.Set(99)

	downstream := New[int]()
	require.True(t, downstream.DelegateTo(upstream))

	v, err := downstream.Get()
	require.NoError(t, err)
	assert.Equal(t, 99, v)
}

func TestDelegateTo_CancelDownstreamPropagatesToUpstream(t *testing.T) {
	upstream := New[int]()
	downstream := New[int]()
	require.True(t, downstream.DelegateTo(upstream))

	require.True(t, downstream.Cancel(true))
	assert.True(t, upstream.IsCancelled())
}

func TestDelegateTo_DownstreamCancelWinsRaceAgainstUpstreamCompletion(t *testing.T) {
	upstream := New[int]()
	downstream := New[int]()
	require.True(t, downstream.DelegateTo(upstream))

	require.True(t, downstream.Cancel(false))
	// upstream completes after the downstream already moved on; the CAS in
	// settle must fail silently instead of clobbering the downstream.
	upstream.Set(1)

	assert.True(t, downstream.IsCancelled())
}

func TestDelegateTo_SelfDelegationPanics(t *testing.T) {
	c := New[int]()
	assert.Panics(t, func() { c.DelegateTo(c) })
}

func TestDelegateTo_OnlySucceedsOnce(t *testing.T) {
	a := New[int]()
	b := New[int]()
	c := New[int]()
	require.True(t, c.DelegateTo(a))
	assert.False(t, c.DelegateTo(b))
}

// foreignFuture is a minimal Awaitable implementation outside this package,
// backed by a *Cell so DelegateToAwaitable can be exercised without a real
// external dependency.
type foreignFuture struct {
	inner *Cell[int]
}

func (f *foreignFuture) IsDone() bool { return f.inner.IsDone() }
func (f *foreignFuture) AddListener(task func(Outcome[int]), exec executor.Executor) {
	f.inner.AddListener(task, exec)
}
func (f *foreignFuture) Cancel(interrupt bool) bool { return f.inner.Cancel(interrupt) }

func TestDelegateToAwaitable_TranscribesSuccess(t *testing.T) {
	inner := New[int]()
	foreign := &foreignFuture{inner: inner}

	downstream := New[int]()
	require.True(t, downstream.DelegateToAwaitable(foreign))

	inner.Set(21)

	v, err := downstream.Get()
	require.NoError(t, err)
	assert.Equal(t, 21, v)
}

func TestDelegateToAwaitable_CancelPropagates(t *testing.T) {
	inner := New[int]()
	foreign := &foreignFuture{inner: inner}

	downstream := New[int]()
	require.True(t, downstream.DelegateToAwaitable(foreign))

	require.True(t, downstream.Cancel(true))
	assert.True(t, inner.IsCancelled())
}
