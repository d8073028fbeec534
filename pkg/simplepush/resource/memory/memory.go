package memory

import (
	"bytes"
	"context"
	"io"
	"sync"

	"github.com/tendant/simple-push/pkg/simplepush"
)

// Backend is an in-memory implementation of the simplepush.ResourceStore
// interface, intended for tests and single-process setups.
type Backend struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// New creates a new in-memory resource backend
func New() simplepush.ResourceStore {
	return &Backend{
		objects: make(map[string][]byte),
	}
}

// Open returns a reader over the named resource's bytes
func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	data, exists := b.objects[name]
	if !exists {
		return nil, simplepush.ErrResourceNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

// Put stores the reader's bytes under the given name
func (b *Backend) Put(ctx context.Context, name string, reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.objects[name] = data
	return nil
}

// Delete removes the named resource
func (b *Backend) Delete(ctx context.Context, name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.objects[name]; !exists {
		return simplepush.ErrResourceNotFound
	}
	delete(b.objects, name)
	return nil
}
