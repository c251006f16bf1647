package router

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/app-estudos/estudos/pkg/routepath"
)

// Table is a built, immutable route table.
// It is safe for concurrent use.
type Table struct {
	root     *Node
	nodes    []*Node
	byName   map[string]*Node
	observer Observer
	logger   *slog.Logger
}

// Option configures a Table.
type Option func(*options)

type options struct {
	validate bool
	observer Observer
	logger   *slog.Logger
}

// WithObserver installs hooks called on every resolve and load.
// Combine several with Observers.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		opts.observer = o
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(opts *options) {
		opts.logger = l
	}
}

// WithoutValidation skips the construction-time checks. A malformed table
// then resolves the first declared of any duplicate names or sibling paths.
func WithoutValidation() Option {
	return func(opts *options) {
		opts.validate = false
	}
}

// New builds a table from its root route.
//
// Unless WithoutValidation is given, New rejects a root path that is not
// absolute, child paths that are absolute or not canonical, routes without a
// loader, duplicate names and duplicate sibling paths. All problems are
// reported together.
func New(root Route, opts ...Option) (*Table, error) {
	o := options{validate: true}
	for _, opt := range opts {
		opt(&o)
	}

	t := &Table{
		byName:   make(map[string]*Node),
		observer: o.observer,
		logger:   o.logger,
	}
	if t.observer == nil {
		t.observer = NopObserver{}
	}
	if t.logger == nil {
		t.logger = slog.Default().With("component", "router")
	}

	b := &builder{table: t, validate: o.validate}
	t.root = b.buildRoot(root)
	if len(b.problems) > 0 {
		return nil, errors.Join(b.problems...)
	}
	return t, nil
}

// MustNew is like New but panics on a configuration error.
// It suits package-level tables declared as literals.
func MustNew(root Route, opts ...Option) *Table {
	t, err := New(root, opts...)
	if err != nil {
		panic(fmt.Sprintf("router: invalid route table: %v", err))
	}
	return t
}

type builder struct {
	table    *Table
	validate bool
	problems []error
}

func (b *builder) fail(err error, format string, args ...any) {
	if !b.validate {
		return
	}
	b.problems = append(b.problems, fmt.Errorf("%w: %s", err, fmt.Sprintf(format, args...)))
}

func (b *builder) buildRoot(r Route) *Node {
	if !strings.HasPrefix(r.Path, "/") {
		b.fail(ErrInvalidRootPath, "%q", r.Path)
	}
	full := "/"
	if res, err := routepath.CanonicalizePath(r.Path); err == nil {
		full = res.Path
	} else {
		b.fail(ErrInvalidPath, "root %q: %v", r.Path, err)
	}
	segs, _ := routepath.Segments(full)
	return b.build(r, nil, full, segs)
}

func (b *builder) build(r Route, parent *Node, full string, segs []string) *Node {
	n := newNode(r, parent, full, segs)
	b.table.nodes = append(b.table.nodes, n)

	if r.Component == nil {
		b.fail(ErrMissingLoader, "%s", n)
	}
	if r.Name != "" {
		if prev, dup := b.table.byName[r.Name]; dup {
			b.fail(ErrDuplicateName, "%q declared at %q and %q", r.Name, prev.fullPath, full)
		} else {
			b.table.byName[r.Name] = n
		}
	}

	seen := make(map[string]string, len(r.Children))
	for _, c := range r.Children {
		rel, ok := b.childPath(n, c.Path)
		if prev, dup := seen[rel]; dup {
			b.fail(ErrDuplicatePath, "%q under %s (also declared as %q)", c.Path, n, prev)
		}
		seen[rel] = c.Path
		if !ok && b.validate {
			continue
		}
		childFull := routepath.Join(full, rel)
		childSegs, _ := routepath.Segments(rel)
		n.children = append(n.children, b.build(c, n, childFull, childSegs))
	}
	return n
}

// childPath returns the canonical relative form of a child path.
func (b *builder) childPath(parent *Node, p string) (string, bool) {
	if strings.HasPrefix(p, "/") {
		b.fail(ErrAbsoluteChild, "%q under %s", p, parent)
		return strings.Trim(p, "/"), false
	}
	if p == "" {
		return "", true
	}
	res, err := routepath.CanonicalizePath("/" + p)
	if err != nil || res.Query != "" || res.Path != "/"+p {
		b.fail(ErrInvalidPath, "%q under %s", p, parent)
		return strings.Trim(p, "/"), false
	}
	return p, true
}

// Root returns the root node.
func (t *Table) Root() *Node { return t.root }

// Nodes returns every node, depth first in declaration order.
func (t *Table) Nodes() []*Node {
	out := make([]*Node, len(t.nodes))
	copy(out, t.nodes)
	return out
}

// Len returns the number of nodes.
func (t *Table) Len() int { return len(t.nodes) }

// Walk calls fn for every node, depth first in declaration order,
// until fn returns false.
func (t *Table) Walk(fn func(n *Node) bool) {
	for _, n := range t.nodes {
		if !fn(n) {
			return
		}
	}
}

// Names returns the route names in declaration order.
func (t *Table) Names() []string {
	var names []string
	for _, n := range t.nodes {
		if n.name != "" && t.byName[n.name] == n {
			names = append(names, n.name)
		}
	}
	return names
}

// Lookup returns the node with the given name.
func (t *Table) Lookup(name string) (*Node, bool) {
	n, ok := t.byName[name]
	return n, ok
}

// Href returns the canonical path of a named route. Params are accepted for
// forward compatibility; no route uses placeholders.
func (t *Table) Href(name string, params Params) (string, error) {
	n, ok := t.byName[name]
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	return n.fullPath, nil
}
