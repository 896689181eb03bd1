package storage

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"library/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	storage, closer, err := NewLocalStorage(dir, "/uploads/", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	location, err := storage.Save(context.Background(), "1700000000-cover.png", strings.NewReader("png-bytes"), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/1700000000-cover.png", location)

	data, err := os.ReadFile(filepath.Join(dir, "1700000000-cover.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	require.NoError(t, storage.Delete(context.Background(), location))
	_, err = os.Stat(filepath.Join(dir, "1700000000-cover.png"))
	assert.True(t, os.IsNotExist(err))
}

// failingReader returns data once and then fails.
type failingReader struct {
	data []byte
	read bool
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.read {
		return 0, errors.New("client went away")
	}
	r.read = true

	return copy(p, r.data), nil
}

func TestLocalStorage_SaveFailureLeavesNoBlob(t *testing.T) {
	dir := t.TempDir()
	storage, closer, err := NewLocalStorage(dir, "/uploads", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	_, err = storage.Save(context.Background(), "partial.png", &failingReader{data: []byte("png-")}, "image/png")

	require.ErrorContains(t, err, "client went away")
	_, err = os.Stat(filepath.Join(dir, "partial.png"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_DeleteMissingIsNoop(t *testing.T) {
	storage, closer, err := NewLocalStorage(t.TempDir(), "/uploads", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	assert.NoError(t, storage.Delete(context.Background(), "/uploads/missing.png"))
	assert.NoError(t, storage.Delete(context.Background(), ""))
}

func TestLocalStorage_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, closer, err := NewLocalStorage(dir, "/uploads", discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = closer.Close() })

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestNewCoverStorage(t *testing.T) {
	t.Run("local by default", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		cfg := &config.Config{Storage: &config.StorageConfig{
			Local: config.LocalStorageConfig{Dir: t.TempDir(), URLPrefix: "/uploads"},
		}}

		storage, err := NewCoverStorage(Params{Lc: lc, Ctx: context.Background(), Config: cfg, Logger: discardLogger()})

		require.NoError(t, err)
		assert.IsType(t, &localStorage{}, storage)
		lc.RequireStart()
		lc.RequireStop()
	})

	t.Run("s3 requires bucket", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		cfg := &config.Config{Storage: &config.StorageConfig{Provider: "s3"}}

		_, err := NewCoverStorage(Params{Lc: lc, Ctx: context.Background(), Config: cfg, Logger: discardLogger()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bucket and region")
	})

	t.Run("unknown provider", func(t *testing.T) {
		lc := fxtest.NewLifecycle(t)
		cfg := &config.Config{Storage: &config.StorageConfig{Provider: "ftp"}}

		_, err := NewCoverStorage(Params{Lc: lc, Ctx: context.Background(), Config: cfg, Logger: discardLogger()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown storage provider")
	})
}

func TestS3Helpers(t *testing.T) {
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "https://minio:9000", endpointURL("minio:9000", true))
	assert.Equal(t, "http://localhost:9000", endpointURL("http://localhost:9000", true))
	assert.Empty(t, endpointURL("", true))

	assert.Equal(t, "http://minio:9000/covers",
		publicBaseURL(config.S3StorageConfig{Bucket: "covers"}, "http://minio:9000"))
	assert.Equal(t, "https://cdn.example.com",
		publicBaseURL(config.S3StorageConfig{Bucket: "covers", PublicURL: "https://cdn.example.com/"}, ""))
	assert.Equal(t, "https://covers.s3.sa-east-1.amazonaws.com",
		publicBaseURL(config.S3StorageConfig{Bucket: "covers", Region: "sa-east-1"}, ""))

	assert.Equal(t, "1700-cover.png", objectKey("https://cdn.example.com/1700-cover.png", "https://cdn.example.com"))
}
