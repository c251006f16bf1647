package router

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("route not found")

	// ErrNilView is returned when a loader succeeds without a view.
	ErrNilView = errors.New("loader returned a nil view")
)

// Table configuration errors, reported by New.
var (
	ErrInvalidRootPath = errors.New("root path must be absolute")
	ErrInvalidPath     = errors.New("invalid route path")
	ErrAbsoluteChild   = errors.New("child path must be relative")
	ErrMissingLoader   = errors.New("route has no component loader")
	ErrDuplicateName   = errors.New("duplicate route name")
	ErrDuplicatePath   = errors.New("duplicate sibling path")
)

// NotFoundError is returned by Resolve and ResolveByName when nothing matches.
type NotFoundError struct {
	// Path is the requested path, empty for a lookup by name.
	Path string

	// Name is the requested route name, empty for a lookup by path.
	Name string

	// Err is the underlying cause, such as a malformed path.
	Err error
}

func (e *NotFoundError) Error() string {
	var msg string
	if e.Name != "" {
		msg = fmt.Sprintf("no route named %q", e.Name)
	} else {
		msg = fmt.Sprintf("no route matches %q", e.Path)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Is reports ErrNotFound as a match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// Unwrap returns the underlying cause.
func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// LoadError is returned by Load when a node's loader fails.
// Nothing is cached; the next Load of the node calls the loader again.
type LoadError struct {
	Node *Node
	Err  error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load route %s: %v", e.Node, e.Err)
}

// Unwrap returns the loader's error.
func (e *LoadError) Unwrap() error {
	return e.Err
}

// ComposeError is returned by Compose when a layout cannot hold its child.
type ComposeError struct {
	Node *Node
	Err  error
}

func (e *ComposeError) Error() string {
	return fmt.Sprintf("compose route %s: %v", e.Node, e.Err)
}

// Unwrap returns the underlying view error.
func (e *ComposeError) Unwrap() error {
	return e.Err
}
