// Package file reads the survey export from local disk, the usual deployment
// where the survey tool drops its CSV onto a shared volume.
package file

import (
	"context"
	"fmt"
	"io"
	"os"
)

// Local opens the survey export from the local disk.
type Local struct{ path string }

// NewLocal returns a Local source bound to path.
func NewLocal(path string) *Local { return &Local{path: path} }

// Open opens the configured path for reading. A context that is already done
// fails immediately without touching the filesystem. Filesystem errors are
// wrapped with the path while keeping errors.Is(err, os.ErrNotExist) usable,
// which is how the loader detects the missing-file case.
func (l *Local) Open(ctx context.Context) (io.ReadCloser, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", l.path, err)
	}
	return f, nil
}

// Version names the file's current revision by size and modification time.
// Replacing the export on disk changes the token, which is what lets the
// loader's cache invalidate without a restart. A stat error keeps
// errors.Is(err, os.ErrNotExist) usable, same as Open.
func (l *Local) Version(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	info, err := os.Stat(l.path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", l.path, err)
	}
	return fmt.Sprintf("%d|%d", info.Size(), info.ModTime().UnixNano()), nil
}
