// Package navigation sequences the navigations of one client.
//
// Loads of different routes finish in any order. A Navigator numbers every
// request and only commits a render when no newer request has committed in
// the meantime, so a slow load never replaces a newer page.
package navigation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/app-estudos/estudos/pkg/router"
	"github.com/app-estudos/estudos/pkg/view"
)

var (
	// ErrSuperseded is returned when a newer navigation committed first.
	ErrSuperseded = errors.New("navigation: superseded by a newer navigation")

	// ErrAmbiguousRequest is returned for a request naming both a path and a route name.
	ErrAmbiguousRequest = errors.New("navigation: request has both path and name")
)

// Request is a navigation target. Exactly one of Path and Name is set;
// an empty request navigates to "/".
type Request struct {
	Path   string
	Name   string
	Params router.Params

	// Replace asks the client to replace its current history entry
	// instead of pushing a new one.
	Replace bool
}

// Result is a committed navigation.
type Result struct {
	ID      uuid.UUID
	Seq     uint64
	Request Request
	Match   *router.Match
	Tree    *view.Node

	CommittedAt time.Time
}

// Navigator commits navigations in request order. It is safe for
// concurrent use.
type Navigator struct {
	table  *router.Table
	logger *slog.Logger

	seq atomic.Uint64

	mu        sync.Mutex
	committed uint64
	current   *Result
	onCommit  []func(*Result)

	// hookMu orders hook calls; notified is the last seq hooks ran for.
	hookMu   sync.Mutex
	notified uint64
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLogger sets the navigator's logger.
func WithLogger(l *slog.Logger) Option {
	return func(n *Navigator) {
		n.logger = l
	}
}

// New returns a Navigator over a route table.
func New(table *router.Table, opts ...Option) *Navigator {
	n := &Navigator{table: table}
	for _, opt := range opts {
		opt(n)
	}
	if n.logger == nil {
		n.logger = slog.Default().With("component", "navigation")
	}
	return n
}

// Next reserves the next sequence number. Callers that receive requests
// in order, such as a connection's read loop, reserve one per request
// before handing it to NavigateAt on another goroutine.
func (n *Navigator) Next() uint64 {
	return n.seq.Add(1)
}

// Navigate resolves, loads and composes a request, then commits it.
//
// A resolve or load failure is returned as is and leaves the current
// result untouched. If a newer navigation committed while this one was
// loading, Navigate returns ErrSuperseded.
func (n *Navigator) Navigate(ctx context.Context, req Request) (*Result, error) {
	return n.NavigateAt(ctx, n.Next(), req)
}

// NavigateAt is Navigate with a sequence number obtained from Next.
func (n *Navigator) NavigateAt(ctx context.Context, seq uint64, req Request) (*Result, error) {
	if req.Path != "" && req.Name != "" {
		return nil, ErrAmbiguousRequest
	}

	id := uuid.New()
	log := n.logger.With("nav_id", id.String(), "seq", seq)

	var (
		m   *router.Match
		err error
	)
	if req.Name != "" {
		m, err = n.table.ResolveByName(req.Name, req.Params)
	} else {
		path := req.Path
		if path == "" {
			path = "/"
		}
		m, err = n.table.Resolve(path)
	}
	if err != nil {
		log.Debug("navigation not resolved", "path", req.Path, "name", req.Name, "error", err)
		return nil, err
	}

	tree, err := n.table.Render(ctx, m)
	if err != nil {
		log.Warn("navigation failed", "path", m.Path, "error", err)
		return nil, err
	}

	res := &Result{
		ID:      id,
		Seq:     seq,
		Request: req,
		Match:   m,
		Tree:    tree,
	}

	n.mu.Lock()
	if n.committed > seq {
		committed := n.committed
		n.mu.Unlock()
		log.Debug("navigation superseded", "path", m.Path, "committed_seq", committed)
		return nil, ErrSuperseded
	}
	res.CommittedAt = time.Now()
	n.committed = seq
	n.current = res
	hooks := n.onCommit
	n.mu.Unlock()

	log.Info("navigation committed", "path", m.Path, "route", m.Leaf().String())
	n.notify(res, hooks)
	return res, nil
}

// notify runs hooks for res unless a newer commit already ran them.
func (n *Navigator) notify(res *Result, hooks []func(*Result)) {
	n.hookMu.Lock()
	defer n.hookMu.Unlock()
	if res.Seq < n.notified {
		return
	}
	n.notified = res.Seq
	for _, fn := range hooks {
		fn(res)
	}
}

// Current returns the last committed result, or nil before the first commit.
func (n *Navigator) Current() *Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

// OnCommit registers fn to run after every commit, in registration order.
// Hooks run on the committing goroutine, outside the navigator's lock, and
// see commits in sequence order: a commit overtaken by a newer one before
// its hooks ran is skipped.
func (n *Navigator) OnCommit(fn func(*Result)) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.onCommit = append(n.onCommit, fn)
}
