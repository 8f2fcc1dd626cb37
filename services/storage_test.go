package services

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"law_office_app_go/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage(t *testing.T) {
	tempDir := t.TempDir()
	storage := NewLocalStorage(tempDir)
	ctx := context.Background()
	content := "hello storage"
	key := "documents/file.txt"

	t.Run("UploadReader creates file", func(t *testing.T) {
		result, err := storage.UploadReader(ctx, strings.NewReader(content), key, "text/plain", int64(len(content)))
		require.NoError(t, err)
		assert.Equal(t, key, result.Key)
		assert.Equal(t, int64(len(content)), result.FileSize)

		_, err = os.Stat(filepath.Join(tempDir, key))
		assert.NoError(t, err)
	})

	t.Run("Get retrieves file content", func(t *testing.T) {
		reader, contentType, err := storage.Get(ctx, key)
		require.NoError(t, err)
		defer reader.Close()

		got, _ := io.ReadAll(reader)
		assert.Equal(t, content, string(got))
		assert.Equal(t, "text/plain", contentType)
	})

	t.Run("Get detects MIME types", func(t *testing.T) {
		_, err := storage.UploadReader(ctx, strings.NewReader("%PDF-1.4"), "documents/doc.PDF", "application/pdf", 8)
		require.NoError(t, err)
		reader, contentType, err := storage.Get(ctx, "documents/doc.PDF")
		require.NoError(t, err)
		reader.Close()
		assert.Equal(t, "application/pdf", contentType)
	})

	t.Run("Delete removes file", func(t *testing.T) {
		require.NoError(t, storage.Delete(ctx, key))
		_, err := os.Stat(filepath.Join(tempDir, key))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("Missing file reports ErrFileNotFound", func(t *testing.T) {
		assert.ErrorIs(t, storage.Delete(ctx, key), ErrFileNotFound)
		_, _, err := storage.Get(ctx, key)
		assert.ErrorIs(t, err, ErrFileNotFound)
	})

	t.Run("Keys cannot escape the base directory", func(t *testing.T) {
		_, err := storage.UploadReader(ctx, strings.NewReader("x"), "../../escape.txt", "text/plain", 1)
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(tempDir, "escape.txt"))
		assert.NoError(t, err, "parent segments are clamped to the base directory")

		_, err = storage.UploadReader(ctx, strings.NewReader("x"), "", "text/plain", 1)
		assert.Error(t, err)
	})
}

func TestGenerateDocumentKey(t *testing.T) {
	key := GenerateDocumentKey("Contract.DOCX")
	assert.True(t, strings.HasPrefix(key, "documents/"))
	assert.True(t, strings.HasSuffix(key, ".docx"))

	parts := strings.Split(strings.TrimSuffix(filepath.Base(key), ".docx"), "_")
	require.Len(t, parts, 2)
	assert.Len(t, parts[0], 36)

	assert.NotEqual(t, key, GenerateDocumentKey("Contract.DOCX"))
}

func TestInitializeStorageFallsBackToLocal(t *testing.T) {
	previous := Storage
	defer func() { Storage = previous }()

	InitializeStorage(&config.Config{UploadDir: t.TempDir()})
	require.NotNil(t, Storage)
	assert.Equal(t, "local", Storage.Name())
}

func TestNewS3Storage(t *testing.T) {
	s, err := NewS3Storage(&config.Config{
		S3Endpoint:        "http://localhost:9000",
		S3Region:          "auto",
		S3Bucket:          "docs",
		S3AccessKeyID:     "key",
		S3SecretAccessKey: "secret",
	})
	require.NoError(t, err)
	assert.Equal(t, "s3", s.Name())
	assert.Equal(t, "docs", s.bucket)
}
