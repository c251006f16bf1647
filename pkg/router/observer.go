package router

import (
	"context"
	"time"
)

// ResolveEvent describes one Resolve or ResolveByName call.
type ResolveEvent struct {
	Path  string // requested path, empty for a lookup by name
	Name  string // requested name, empty for a lookup by path
	Match *Match // nil on failure
	Err   error
}

// LoadEvent describes the load of one node within Load.
type LoadEvent struct {
	Node *Node

	// Cached is true when the view was already loaded and no loader ran
	// on behalf of this call.
	Cached bool

	Duration time.Duration
	Err      error
}

// Observer receives resolve and load notifications. Implementations must be
// safe for concurrent use; loads of a chain run in parallel.
type Observer interface {
	OnResolve(e ResolveEvent)

	// OnLoadStart is called before a node is loaded. The returned context is
	// passed to the loader and to OnLoadEnd.
	OnLoadStart(ctx context.Context, n *Node) context.Context

	OnLoadEnd(ctx context.Context, e LoadEvent)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) OnResolve(ResolveEvent) {}

func (NopObserver) OnLoadStart(ctx context.Context, _ *Node) context.Context { return ctx }

func (NopObserver) OnLoadEnd(context.Context, LoadEvent) {}

// Observers fans notifications out to several observers, in order.
func Observers(obs ...Observer) Observer {
	return multiObserver(obs)
}

type multiObserver []Observer

func (m multiObserver) OnResolve(e ResolveEvent) {
	for _, o := range m {
		o.OnResolve(e)
	}
}

func (m multiObserver) OnLoadStart(ctx context.Context, n *Node) context.Context {
	for _, o := range m {
		ctx = o.OnLoadStart(ctx, n)
	}
	return ctx
}

func (m multiObserver) OnLoadEnd(ctx context.Context, e LoadEvent) {
	for i := len(m) - 1; i >= 0; i-- {
		m[i].OnLoadEnd(ctx, e)
	}
}
