package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryObjectStorage(t *testing.T) {
	s := NewMemoryObjectStorage("https://files.test")
	s.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	ctx := context.Background()

	t.Run("urls carry action, key and expiry", func(t *testing.T) {
		u, expiresAt, err := s.GenerateUploadURL(ctx, "docs/sow.pdf", "application/pdf", time.Hour)
		require.NoError(t, err)
		assert.Equal(t, "https://files.test/upload/docs/sow.pdf?expires=2024-06-01T13%3A00%3A00Z", u)
		assert.Equal(t, time.Date(2024, 6, 1, 13, 0, 0, 0, time.UTC), expiresAt)

		u, _, err = s.GenerateDownloadURL(ctx, "docs/sow.pdf", 0)
		require.NoError(t, err)
		assert.Contains(t, u, "https://files.test/download/docs/sow.pdf?expires=2024-06-01T12%3A15%3A00Z")
	})

	t.Run("put, read back and delete", func(t *testing.T) {
		body := []byte("name,total\n")
		require.NoError(t, s.PutObject(ctx, "exports/a.csv", "text/csv", body))
		body[0] = 'X'

		stored, contentType, ok := s.Object("exports/a.csv")
		require.True(t, ok)
		assert.Equal(t, "name,total\n", string(stored))
		assert.Equal(t, "text/csv", contentType)

		require.NoError(t, s.DeleteObject(ctx, "exports/a.csv"))
		_, _, ok = s.Object("exports/a.csv")
		assert.False(t, ok)
	})

	t.Run("empty key", func(t *testing.T) {
		_, _, err := s.GenerateUploadURL(ctx, "", "", time.Minute)
		assert.ErrorIs(t, err, errEmptyKey)
	})
}
