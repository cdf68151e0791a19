// Package datasource abstracts where the raw survey export comes from: a
// file on a shared volume or a download URL served by the survey tool.
package datasource

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound reports that the backing data does not exist (a missing file,
// an HTTP 404). The loader renders the empty-table result for it instead of
// failing the page.
var ErrNotFound = errors.New("data not found")

// Source yields a readable stream of the raw export bytes.
type Source interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// Versioned is implemented by sources that can cheaply name the current
// revision of their data (file size and mtime, HTTP validators). The loader
// keys its cache on the token, so a replaced export invalidates without a
// process restart. An empty token means the revision cannot be named and
// disables caching for that pass.
type Versioned interface {
	Version(ctx context.Context) (string, error)
}
