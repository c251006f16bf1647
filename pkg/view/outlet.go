package view

import "errors"

var (
	// ErrNoOutlet is returned when a child is placed into a tree without an outlet.
	ErrNoOutlet = errors.New("view: layout renders no outlet")

	// ErrMultipleOutlets is returned when a tree has more than one outlet.
	ErrMultipleOutlets = errors.New("view: layout renders more than one outlet")
)

// CountOutlets returns the number of outlets in the tree.
func CountOutlets(n *Node) int {
	if n == nil {
		return 0
	}
	if n.Kind == KindOutlet {
		return 1
	}
	count := 0
	for _, c := range n.Children {
		count += CountOutlets(c)
	}
	return count
}

// HasOutlet reports whether the tree has exactly one outlet.
func HasOutlet(n *Node) bool {
	return CountOutlets(n) == 1
}

// Fill returns a copy of tree with its single outlet replaced by child.
// Only the nodes on the path to the outlet are copied; the rest of the tree
// is shared. A nil child empties the outlet.
func Fill(tree, child *Node) (*Node, error) {
	switch CountOutlets(tree) {
	case 0:
		return nil, ErrNoOutlet
	case 1:
	default:
		return nil, ErrMultipleOutlets
	}
	if child == nil {
		child = Fragment()
	}
	return fill(tree, child), nil
}

func fill(n, child *Node) *Node {
	if n.Kind == KindOutlet {
		return child
	}
	for i, c := range n.Children {
		if CountOutlets(c) == 0 {
			continue
		}
		cp := *n
		cp.Children = make([]*Node, len(n.Children))
		copy(cp.Children, n.Children)
		cp.Children[i] = fill(c, child)
		return &cp
	}
	return n
}
