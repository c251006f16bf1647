// Package lazy provides a compute-once, cache-forever cell that is safe for
// concurrent use.
//
// A Cell runs its producer at most once per successful result. Callers that
// arrive while the producer is running wait for that same call instead of
// starting another one. A failed call is not cached: the cell returns to
// Unloaded and the next Get runs the producer again.
//
//	views := lazy.New(func(ctx context.Context) (*Dashboard, error) {
//	    return loadDashboard(ctx)
//	})
//	d, err := views.Get(ctx)
package lazy

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/singleflight"
)

// State is the load state of a Cell.
type State int32

const (
	Unloaded State = iota // producer not yet run, or last run failed
	Loading               // producer in flight
	Loaded                // value cached
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case Unloaded:
		return "unloaded"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// Func produces the value of a Cell.
type Func[T any] func(ctx context.Context) (T, error)

// Cell is a deferred, memoizing producer of a T.
// The zero value is not usable; create cells with New or Value.
type Cell[T any] struct {
	fn    Func[T]
	group singleflight.Group
	state   atomic.Int32
	calls   atomic.Int64
	waiters atomic.Int32

	// value is written once, before state is set to Loaded.
	value T
}

// New returns a cell that runs fn on first Get.
func New[T any](fn Func[T]) *Cell[T] {
	return &Cell[T]{fn: fn}
}

// Value returns a cell that is already Loaded with v. It lets eagerly
// constructed values sit behind the same interface as lazy ones.
func Value[T any](v T) *Cell[T] {
	c := &Cell[T]{
		fn: func(context.Context) (T, error) { return v, nil },
	}
	c.value = v
	c.state.Store(int32(Loaded))
	return c
}

// Get returns the cached value, running the producer if needed.
//
// Concurrent callers share one in-flight call. The producer runs with a
// context detached from the first caller's cancellation, so a caller that
// gives up does not fail the load for the others; that caller gets ctx.Err().
func (c *Cell[T]) Get(ctx context.Context) (T, error) {
	if State(c.state.Load()) == Loaded {
		return c.value, nil
	}

	ch := c.group.DoChan("", func() (any, error) {
		if State(c.state.Load()) == Loaded {
			return c.value, nil
		}
		c.state.Store(int32(Loading))
		c.calls.Add(1)

		v, err := c.fn(context.WithoutCancel(ctx))
		if err != nil {
			c.state.Store(int32(Unloaded))
			return nil, err
		}
		c.value = v
		c.state.Store(int32(Loaded))
		return v, nil
	})

	c.waiters.Add(1)
	defer c.waiters.Add(-1)

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		v, _ := res.Val.(T)
		return v, nil
	}
}

// State reports the current load state.
func (c *Cell[T]) State() State {
	return State(c.state.Load())
}

// Waiters reports how many callers are waiting on the in-flight call.
func (c *Cell[T]) Waiters() int {
	return int(c.waiters.Load())
}

// Calls reports how many times the producer has been invoked.
func (c *Cell[T]) Calls() int64 {
	return c.calls.Load()
}
