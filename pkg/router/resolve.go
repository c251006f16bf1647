package router

import (
	"maps"
	"slices"

	"github.com/app-estudos/estudos/pkg/routepath"
)

// Resolve matches a path against the table.
//
// The path is canonicalized first: a missing leading slash makes it relative
// to the root, duplicate slashes, "." and ".." are resolved, and any query
// string is ignored. It returns the full chain root to leaf, or a
// *NotFoundError when no chain matches completely.
func (t *Table) Resolve(path string) (*Match, error) {
	m, err := t.resolve(path)
	t.observer.OnResolve(ResolveEvent{Path: path, Match: m, Err: err})
	return m, err
}

func (t *Table) resolve(path string) (*Match, error) {
	res, err := routepath.CanonicalizePath(path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}
	segs, err := routepath.Segments(res.Path)
	if err != nil {
		return nil, &NotFoundError{Path: path, Err: err}
	}

	if !hasPrefix(segs, t.root.segments) {
		return nil, &NotFoundError{Path: path}
	}
	chain, ok := t.root.match(segs[len(t.root.segments):], make([]*Node, 0, 4))
	if !ok {
		return nil, &NotFoundError{Path: path}
	}
	return &Match{Path: res.Path, Chain: slices.Clip(chain)}, nil
}

// match walks the subtree depth first. Children are tried in declaration
// order; the first complete match wins, and a child that matches a prefix but
// cannot consume the rest is backtracked over.
func (n *Node) match(segs []string, chain []*Node) ([]*Node, bool) {
	chain = append(chain, n)

	if len(segs) == 0 {
		if def := n.DefaultChild(); def != nil {
			if out, ok := def.match(nil, chain); ok {
				return out, true
			}
		}
		// A layout without a default child renders with an empty outlet.
		return chain, true
	}

	for _, c := range n.children {
		if !hasPrefix(segs, c.segments) {
			continue
		}
		if out, ok := c.match(segs[len(c.segments):], chain); ok {
			return out, true
		}
	}
	return nil, false
}

func hasPrefix(segs, prefix []string) bool {
	return len(segs) >= len(prefix) && slices.Equal(segs[:len(prefix)], prefix)
}

// ResolveByName looks up a route by name and returns the chain from the root
// down to it. Params are copied onto the match; no route uses them yet.
func (t *Table) ResolveByName(name string, params Params) (*Match, error) {
	m, err := t.resolveByName(name, params)
	t.observer.OnResolve(ResolveEvent{Name: name, Match: m, Err: err})
	return m, err
}

func (t *Table) resolveByName(name string, params Params) (*Match, error) {
	n, ok := t.byName[name]
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	return &Match{
		Path:   n.fullPath,
		Chain:  n.Ancestors(),
		Params: maps.Clone(params),
	}, nil
}
