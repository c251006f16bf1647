package router

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/app-estudos/estudos/pkg/lazy"
	"github.com/app-estudos/estudos/pkg/view"
)

// Load loads the view of every node in the match.
//
// Nodes load concurrently. A node's loader runs at most once for a
// successful result; concurrent loads of the same node wait for the same
// call. If any loader fails, Load returns its *LoadError. Loads of the other
// nodes keep running and are cached when they finish.
func (t *Table) Load(ctx context.Context, m *Match) (*Loaded, error) {
	views := make([]view.View, len(m.Chain))

	g, gctx := errgroup.WithContext(ctx)
	for i, n := range m.Chain {
		g.Go(func() error {
			v, err := t.loadNode(gctx, n)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &Loaded{Match: m, Views: views}, nil
}

func (t *Table) loadNode(ctx context.Context, n *Node) (view.View, error) {
	cached := n.cell.State() == lazy.Loaded
	ctx = t.observer.OnLoadStart(ctx, n)
	start := time.Now()

	v, err := n.cell.Get(ctx)

	t.observer.OnLoadEnd(ctx, LoadEvent{
		Node:     n,
		Cached:   cached,
		Duration: time.Since(start),
		Err:      err,
	})
	if err != nil {
		// A cancelled waiter is not a loader failure.
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		t.logger.Warn("route load failed", "route", n.String(), "error", err)
		return nil, &LoadError{Node: n, Err: err}
	}
	if !cached {
		t.logger.Debug("route loaded", "route", n.String(), "duration", time.Since(start))
	}
	return v, nil
}

// Compose places each loaded view into its parent's outlet and returns the
// outermost tree. A layout leaf (a layout matched without a default child)
// renders with an empty outlet.
func (t *Table) Compose(l *Loaded) (*view.Node, error) {
	var child *view.Node
	for i := len(l.Views) - 1; i >= 0; i-- {
		n := l.Match.Chain[i]
		tree := l.Views[i].Render()
		leaf := i == len(l.Views)-1

		if leaf && view.CountOutlets(tree) == 0 {
			child = tree
			continue
		}
		filled, err := view.Fill(tree, child)
		if err != nil {
			return nil, &ComposeError{Node: n, Err: err}
		}
		child = filled
	}
	return child, nil
}

// Render loads and composes a match.
func (t *Table) Render(ctx context.Context, m *Match) (*view.Node, error) {
	loaded, err := t.Load(ctx, m)
	if err != nil {
		return nil, err
	}
	return t.Compose(loaded)
}

// Prefetch loads the chains of the named routes, or of every node when no
// names are given, without composing them. Errors are joined.
func (t *Table) Prefetch(ctx context.Context, names ...string) error {
	var matches []*Match
	if len(names) == 0 {
		for _, n := range t.nodes {
			matches = append(matches, &Match{Path: n.fullPath, Chain: n.Ancestors()})
		}
	} else {
		for _, name := range names {
			m, err := t.resolveByName(name, nil)
			if err != nil {
				return err
			}
			matches = append(matches, m)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	errs := make([]error, len(matches))
	for i, m := range matches {
		g.Go(func() error {
			_, errs[i] = t.Load(gctx, m)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
