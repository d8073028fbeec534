package simplepush

import (
	"context"
	"io"
)

// ResourceOpener resolves a named byte resource for push requests that
// reference data by name instead of carrying it inline.
type ResourceOpener interface {
	// Open returns a reader for the named resource. The buffer reads it to
	// the end and closes it before Push returns, on all paths.
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// ResourceStore is a ResourceOpener whose backend is also writable.
type ResourceStore interface {
	ResourceOpener

	// Put stores the reader's bytes under the given name, replacing any
	// previous value.
	Put(ctx context.Context, name string, reader io.Reader) error
}

// BoundaryGenerator produces multipart boundary tokens. Tokens must be
// pairwise distinct across sessions and must never contain a line that the
// assembler's own "--"-prefixed framing could collide with.
type BoundaryGenerator interface {
	Generate() string
}
