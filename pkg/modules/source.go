package modules

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
)

// ErrModuleNotFound is returned by a Source for an unknown key.
var ErrModuleNotFound = errors.New("module not found")

// Source fetches module contents by key. Keys are slash-separated
// relative paths such as "trabalhos/novo.md".
type Source interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

// FSSource reads modules from a file system.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a Source over fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Fetch reads the file named by key.
func (s *FSSource) Fetch(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !fs.ValidPath(key) {
		return nil, fmt.Errorf("modules: invalid key %q", key)
	}
	data, err := fs.ReadFile(s.fsys, key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrModuleNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("modules: read %s: %w", key, err)
	}
	return data, nil
}
