package router

import (
	"context"
	"fmt"

	"github.com/app-estudos/estudos/pkg/lazy"
	"github.com/app-estudos/estudos/pkg/view"
)

// Node is an immutable node of a built table.
type Node struct {
	path     string
	name     string
	fullPath string
	segments []string
	depth    int

	parent   *Node
	children []*Node

	cell *lazy.Cell[view.View]
}

func newNode(r Route, parent *Node, fullPath string, segments []string) *Node {
	n := &Node{
		path:     r.Path,
		name:     r.Name,
		fullPath: fullPath,
		segments: segments,
		parent:   parent,
	}
	if parent != nil {
		n.depth = parent.depth + 1
	}

	loader := r.Component
	n.cell = lazy.New(func(ctx context.Context) (view.View, error) {
		if loader == nil {
			return nil, ErrMissingLoader
		}
		v, err := loader(ctx)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, ErrNilView
		}
		return v, nil
	})
	return n
}

// Path returns the path as declared, relative to the parent.
func (n *Node) Path() string { return n.path }

// Name returns the route name, or "" if the route is unnamed.
func (n *Node) Name() string { return n.name }

// FullPath returns the canonical absolute path of the node.
func (n *Node) FullPath() string { return n.fullPath }

// Parent returns the parent node, nil for the root.
func (n *Node) Parent() *Node { return n.parent }

// Depth returns the distance from the root, which has depth 0.
func (n *Node) Depth() int { return n.depth }

// Children returns the child nodes in declaration order.
func (n *Node) Children() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// IsLayout reports whether the node has children and so renders an outlet.
func (n *Node) IsLayout() bool { return len(n.children) > 0 }

// IsDefault reports whether the node is its parent's default child.
func (n *Node) IsDefault() bool { return n.parent != nil && len(n.segments) == 0 }

// DefaultChild returns the first child with an empty path, if any.
func (n *Node) DefaultChild() *Node {
	for _, c := range n.children {
		if len(c.segments) == 0 {
			return c
		}
	}
	return nil
}

// State returns the node's load state.
func (n *Node) State() lazy.State { return n.cell.State() }

// LoadCount returns how many times the node's loader has been invoked.
func (n *Node) LoadCount() int64 { return n.cell.Calls() }

// Ancestors returns the chain from the root down to and including n.
func (n *Node) Ancestors() []*Node {
	chain := make([]*Node, n.depth+1)
	for cur := n; cur != nil; cur = cur.parent {
		chain[cur.depth] = cur
	}
	return chain
}

// String returns the route name, or its full path for unnamed routes.
func (n *Node) String() string {
	if n == nil {
		return "<nil>"
	}
	if n.name != "" {
		return n.name
	}
	return fmt.Sprintf("%q", n.fullPath)
}
