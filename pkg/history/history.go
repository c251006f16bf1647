// Package history maps browser addresses to application paths.
//
// A History is bound to the base path the application is served under.
// Location turns an incoming address into the path the route table resolves;
// Href turns an application path back into an address the browser can load.
//
//	h := history.New("/app/")
//	loc, _ := h.Location("https://example.com/app/trabalhos?page=2")
//	// loc.Path == "/trabalhos", loc.Query.Get("page") == "2"
//	h.Href("/trabalhos", nil) // "/app/trabalhos"
package history

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/app-estudos/estudos/pkg/routepath"
)

// ErrOutsideBase is returned for an address that is not under the base path.
var ErrOutsideBase = errors.New("history: path outside base")

// Location is an application address.
type Location struct {
	// Path is canonical and relative to the base, always starting with "/".
	Path string

	// Query holds the decoded query parameters.
	Query url.Values
}

// String returns the path followed by the encoded query, if any.
func (l Location) String() string {
	if len(l.Query) == 0 {
		return l.Path
	}
	return l.Path + "?" + l.Query.Encode()
}

// History addresses an application mounted under a base path.
type History struct {
	base string
}

// New returns a History for the given base. An empty base means "/".
// The base is canonicalized, so "app", "/app" and "/app/" are equivalent.
func New(base string) *History {
	res, err := routepath.CanonicalizePath(base)
	if err != nil {
		res.Path = "/"
	}
	return &History{base: res.Path}
}

// Base returns the canonical base path.
func (h *History) Base() string { return h.base }

// Location parses an address. rawURL may be absolute ("https://host/app/x")
// or a path with an optional query ("/app/x?y=1"); any fragment is dropped.
func (h *History) Location(rawURL string) (Location, error) {
	path, rawQuery := routepath.SplitPathAndQuery(rawURL)
	if routepath.IsExternal(rawURL) || strings.Contains(path, "://") {
		u, err := url.Parse(rawURL)
		if err != nil {
			return Location{}, fmt.Errorf("history: parse %q: %w", rawURL, err)
		}
		path, rawQuery = u.EscapedPath(), u.RawQuery
	}

	res, err := routepath.CanonicalizePath(path)
	if err != nil {
		return Location{}, fmt.Errorf("history: %q: %w", rawURL, err)
	}

	rel, ok := h.strip(res.Path)
	if !ok {
		return Location{}, fmt.Errorf("%w: %q not under %q", ErrOutsideBase, res.Path, h.base)
	}

	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return Location{}, fmt.Errorf("history: query of %q: %w", rawURL, err)
	}
	return Location{Path: rel, Query: query}, nil
}

func (h *History) strip(path string) (string, bool) {
	if h.base == "/" {
		return path, true
	}
	if path == h.base {
		return "/", true
	}
	if rest, ok := strings.CutPrefix(path, h.base); ok && strings.HasPrefix(rest, "/") {
		return rest, true
	}
	return "", false
}

// Href returns the browser-visible address of an application path.
func (h *History) Href(path string, query url.Values) string {
	href := routepath.Join(h.base, strings.TrimPrefix(path, "/"))
	if len(query) > 0 {
		href += "?" + query.Encode()
	}
	return href
}
