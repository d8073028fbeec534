package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/tendant/simple-push/pkg/simplepush"
)

// Backend is a filesystem implementation of the simplepush.ResourceStore
// interface. Resource names are paths relative to the configured base
// directory; names escaping the base directory are rejected.
type Backend struct {
	baseDir string
}

// Config options for the filesystem backend
type Config struct {
	BaseDir string // Base directory resource names resolve against
}

// New creates a new filesystem resource backend
func New(config Config) (simplepush.ResourceStore, error) {
	if config.BaseDir == "" {
		return nil, errors.New("base directory is required")
	}

	if err := os.MkdirAll(config.BaseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory: %w", err)
	}

	return &Backend{baseDir: config.BaseDir}, nil
}

// Open opens the named file for reading
func (b *Backend) Open(ctx context.Context, name string) (io.ReadCloser, error) {
	path, err := b.resolve(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, simplepush.ErrResourceNotFound
	} else if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}

// Put writes the reader's bytes to the named file, creating parent
// directories as needed
func (b *Backend) Put(ctx context.Context, name string, reader io.Reader) error {
	path, err := b.resolve(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(file, reader); err != nil {
		file.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	return file.Close()
}

// Delete removes the named file
func (b *Backend) Delete(ctx context.Context, name string) error {
	path, err := b.resolve(name)
	if err != nil {
		return err
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return simplepush.ErrResourceNotFound
	}
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// resolve maps a resource name to an absolute path inside baseDir.
func (b *Backend) resolve(name string) (string, error) {
	if name == "" {
		return "", errors.New("resource name is required")
	}
	// rooted Clean collapses any ".." segments before joining
	cleaned := filepath.Clean("/" + filepath.FromSlash(name))
	return filepath.Join(b.baseDir, cleaned), nil
}
