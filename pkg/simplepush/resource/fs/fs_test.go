package fs_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-push/pkg/simplepush"
	fsresource "github.com/tendant/simple-push/pkg/simplepush/resource/fs"
)

func TestFSBackend(t *testing.T) {
	baseDir := t.TempDir()
	backend, err := fsresource.New(fsresource.Config{BaseDir: baseDir})
	require.NoError(t, err)

	ctx := context.Background()
	testData := "filesystem resource data"

	t.Run("PutCreatesNestedDirectories", func(t *testing.T) {
		err := backend.Put(ctx, "nested/dir/file.txt", strings.NewReader(testData))
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(baseDir, "nested", "dir", "file.txt"))
		assert.NoError(t, err)
	})

	t.Run("Open", func(t *testing.T) {
		rc, err := backend.Open(ctx, "nested/dir/file.txt")
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := backend.Open(ctx, "missing.txt")
		assert.ErrorIs(t, err, simplepush.ErrResourceNotFound)
	})

	t.Run("TraversalStaysInsideBase", func(t *testing.T) {
		outside := filepath.Join(filepath.Dir(baseDir), "outside.txt")
		require.NoError(t, os.WriteFile(outside, []byte("secret"), 0644))
		t.Cleanup(func() { os.Remove(outside) })

		_, err := backend.Open(ctx, "../outside.txt")
		assert.ErrorIs(t, err, simplepush.ErrResourceNotFound)
	})
}

func TestFSBackendRequiresBaseDir(t *testing.T) {
	_, err := fsresource.New(fsresource.Config{})
	assert.Error(t, err)
}
