package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiskStoreSave(t *testing.T) {
	dir := t.TempDir()
	store, err := NewDiskStore(dir, "https://api.pitchside.app/")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), []byte("fake png"), "image/png", "heatmap_abc123")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "https://api.pitchside.app/uploads/heatmap_abc123_"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	filename := url[strings.LastIndex(url, "/")+1:]
	data, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, []byte("fake png"), data)
}

func TestDiskStoreSave_UnknownMimeFallsBack(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	url, err := store.Save(context.Background(), []byte("blob"), "application/x-unknown", "momentum")
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".bin"))
}

func TestDiskStoreSave_CancelledContext(t *testing.T) {
	store, err := NewDiskStore(t.TempDir(), "http://localhost:8080")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = store.Save(ctx, []byte("data"), "image/png", "heatmap")
	assert.ErrorIs(t, err, ErrStorage)
}

func TestDiskStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	_, err := NewDiskStore(dir, "http://localhost:8080")
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "heatmap_1", sanitize("HeatMap 1"))
	assert.Equal(t, "video-2_a1b2", sanitize("  Video-2 a1b2  "))
	assert.Equal(t, "artifact", sanitize("   "))
}
