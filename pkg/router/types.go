package router

import (
	"context"
	"slices"

	"github.com/app-estudos/estudos/pkg/view"
)

// Loader produces the view component of a route. It is invoked through a
// lazy cell, so it runs at most once per successful result.
type Loader func(ctx context.Context) (view.View, error)

// Params are navigation parameters. No route in the table uses placeholders;
// params are carried on the match so callers can already pass them.
type Params map[string]string

// Route is a declared route entry, the literal form of the table.
type Route struct {
	// Path is relative to the parent. The root's path is the base path ("/").
	// The empty path is the parent's default child.
	Path string

	// Name optionally identifies the route for lookup by name.
	// Names are unique across the whole table.
	Name string

	// Component loads the route's view.
	Component Loader

	// Children are the nested routes. A route with children is a layout.
	Children []Route
}

// Match is a resolved chain of nodes, root to leaf.
type Match struct {
	// Path is the canonical path of the request.
	Path string

	// Chain holds the matched nodes, root first.
	Chain []*Node

	// Params are the parameters passed with the request.
	Params Params
}

// Leaf returns the innermost matched node.
func (m *Match) Leaf() *Node {
	if m == nil || len(m.Chain) == 0 {
		return nil
	}
	return m.Chain[len(m.Chain)-1]
}

// Name returns the leaf's route name, which may be empty.
func (m *Match) Name() string {
	if leaf := m.Leaf(); leaf != nil {
		return leaf.Name()
	}
	return ""
}

// Equal reports whether two matches resolved to the same chain of nodes.
func (m *Match) Equal(other *Match) bool {
	if m == nil || other == nil {
		return m == other
	}
	return slices.Equal(m.Chain, other.Chain)
}

// Loaded is a match whose views have all been loaded.
type Loaded struct {
	Match *Match

	// Views holds one loaded view per chain node, in chain order.
	Views []view.View
}
