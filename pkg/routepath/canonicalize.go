// Package routepath normalizes the path strings the route table deals in.
//
// Every path handed to the resolver goes through CanonicalizePath first, so
// the table only ever compares clean, slash-separated literal segments.
package routepath

import (
	"errors"
	"net/url"
	"strings"
)

// CanonicalizeResult contains the result of path canonicalization.
type CanonicalizeResult struct {
	// Path is the canonicalized path (without query string).
	Path string

	// Query is the query string (without leading "?").
	Query string

	// Changed indicates if the path was modified during canonicalization.
	Changed bool
}

// Path canonicalization errors.
var (
	ErrInvalidPath          = errors.New("invalid path")
	ErrBackslashInPath      = errors.New("path contains backslash")
	ErrNullByteInPath       = errors.New("path contains null byte")
	ErrInvalidPercentEscape = errors.New("invalid percent escape sequence")
	ErrPathEscapesRoot      = errors.New("path escapes root via ..")
)

// CanonicalizePath normalizes a path.
//
// The following transformations are applied:
//   - Add a leading slash (relative paths resolve against the root)
//   - Remove trailing slash (except for root "/")
//   - Collapse multiple slashes (/trabalhos//novo → /trabalhos/novo)
//   - Remove "." segments
//   - Resolve ".." segments
//   - Split off the query string
//
// Paths containing a backslash, a NUL byte or a malformed percent escape are
// rejected, as is a ".." that would climb above the root.
func CanonicalizePath(input string) (CanonicalizeResult, error) {
	if input == "" {
		return CanonicalizeResult{Path: "/", Changed: true}, nil
	}

	path, query := SplitPathAndQuery(input)

	if strings.Contains(path, "\\") {
		return CanonicalizeResult{}, ErrBackslashInPath
	}
	if strings.Contains(path, "\x00") || strings.Contains(strings.ToUpper(path), "%00") {
		return CanonicalizeResult{}, ErrNullByteInPath
	}
	if strings.Contains(path, "%") {
		if err := validatePercentEscapes(path); err != nil {
			return CanonicalizeResult{}, err
		}
	}

	var segs []string
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(segs) == 0 {
				return CanonicalizeResult{}, ErrPathEscapesRoot
			}
			segs = segs[:len(segs)-1]
		default:
			segs = append(segs, seg)
		}
	}

	clean := "/" + strings.Join(segs, "/")
	return CanonicalizeResult{
		Path:    clean,
		Query:   query,
		Changed: clean != path,
	}, nil
}

func validatePercentEscapes(path string) error {
	for i := 0; i < len(path); i++ {
		if path[i] != '%' {
			continue
		}
		if i+2 >= len(path) || !isHexDigit(path[i+1]) || !isHexDigit(path[i+2]) {
			return ErrInvalidPercentEscape
		}
		i += 2
	}
	return nil
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// Segments splits a canonical path into decoded segments. The root has none.
func Segments(path string) ([]string, error) {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil, nil
	}

	raw := strings.Split(path, "/")
	out := make([]string, 0, len(raw))
	for _, seg := range raw {
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			return nil, ErrInvalidPercentEscape
		}
		out = append(out, decoded)
	}
	return out, nil
}

// Join appends a relative route path to its parent's full path.
// An empty child is the parent itself.
func Join(parent, child string) string {
	child = strings.Trim(child, "/")
	if child == "" {
		if parent == "" {
			return "/"
		}
		return parent
	}
	if parent == "" || parent == "/" {
		return "/" + child
	}
	return strings.TrimSuffix(parent, "/") + "/" + child
}

// IsExternal reports whether s names another origin rather than an app path.
func IsExternal(s string) bool {
	return strings.HasPrefix(s, "http://") ||
		strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "//")
}

// CanonicalizeAndValidateNavPath canonicalizes a navigation target supplied
// by a client. Targets must be absolute app paths, never full URLs.
// It returns the canonical path with its query string, if any.
func CanonicalizeAndValidateNavPath(path string) (string, error) {
	if IsExternal(path) || !strings.HasPrefix(path, "/") {
		return "", ErrInvalidPath
	}

	result, err := CanonicalizePath(path)
	if err != nil {
		return "", err
	}
	if result.Query != "" {
		return result.Path + "?" + result.Query, nil
	}
	return result.Path, nil
}

// SplitPathAndQuery splits a path into path and query components.
// The query is returned without the leading "?"; a fragment is dropped.
func SplitPathAndQuery(input string) (path, query string) {
	input, _, _ = strings.Cut(input, "#")
	path, query, _ = strings.Cut(input, "?")
	return path, query
}
