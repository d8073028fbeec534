package memory_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendant/simple-push/pkg/simplepush"
	memoryresource "github.com/tendant/simple-push/pkg/simplepush/resource/memory"
)

func TestMemoryBackend(t *testing.T) {
	backend := memoryresource.New()
	ctx := context.Background()
	testName := "test/resource/name"
	testData := "Hello, World! This is test data."

	t.Run("Put", func(t *testing.T) {
		err := backend.Put(ctx, testName, strings.NewReader(testData))
		assert.NoError(t, err)
	})

	t.Run("Open", func(t *testing.T) {
		rc, err := backend.Open(ctx, testName)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, testData, string(data))
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := backend.Open(ctx, "no/such/resource")
		assert.ErrorIs(t, err, simplepush.ErrResourceNotFound)
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, backend.Put(ctx, testName, strings.NewReader("replaced")))

		rc, err := backend.Open(ctx, testName)
		require.NoError(t, err)
		defer rc.Close()

		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Equal(t, "replaced", string(data))
	})
}

func TestMemoryBackendAsOpener(t *testing.T) {
	backend := memoryresource.New()
	ctx := context.Background()

	require.NoError(t, backend.Put(ctx, "greeting.txt", strings.NewReader("Hi there")))

	buf := simplepush.New(simplepush.WithResourceOpener(backend))
	require.NoError(t, buf.Push(ctx, simplepush.PushRequest{
		MimeType: "text/plain",
		Resource: "greeting.txt",
	}))

	chunk, err := buf.Pull()
	require.NoError(t, err)
	assert.Contains(t, string(chunk), "Hi there")
}
