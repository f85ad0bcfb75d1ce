package adapter

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocalStore(t *testing.T) (PhotoStore, string) {
	t.Helper()
	dir := t.TempDir()

	store, err := NewLocalPhotoStore(config.Uploads{Dir: dir}, "contacts.example.com", logger.Nop())
	require.NoError(t, err)

	return store, dir
}

func TestLocalPhotoStore_Store(t *testing.T) {
	store, dir := newLocalStore(t)

	url, err := store.Store(context.Background(), PhotoUpload{
		Filename:    "avatar.png",
		ContentType: "image/png",
		Data:        []byte{0x89, 'P', 'N', 'G'},
	})

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "https://contacts.example.com/uploads/"))
	assert.True(t, strings.HasSuffix(url, "_avatar.png"))

	// The stored file must exist on disk with the uploaded bytes.
	name := strings.TrimPrefix(url, "https://contacts.example.com/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)
}

func TestLocalPhotoStore_Store_UniqueNames(t *testing.T) {
	store, _ := newLocalStore(t)
	ctx := context.Background()

	first, err := store.Store(ctx, PhotoUpload{Filename: "avatar.png", Data: []byte{1}})
	require.NoError(t, err)
	second, err := store.Store(ctx, PhotoUpload{Filename: "avatar.png", Data: []byte{2}})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalPhotoStore_Store_SanitizesFileName(t *testing.T) {
	store, dir := newLocalStore(t)

	url, err := store.Store(context.Background(), PhotoUpload{
		Filename: "../../etc/my photo.png",
		Data:     []byte{1},
	})

	require.NoError(t, err)
	assert.Contains(t, url, "_my_photo.png")
	assert.NotContains(t, url, "..")

	// Nothing may be written outside the uploads directory.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestLocalPhotoStore_Store_EmptyUpload(t *testing.T) {
	store, dir := newLocalStore(t)

	_, err := store.Store(context.Background(), PhotoUpload{Filename: "avatar.png"})

	assert.ErrorIs(t, err, ErrEmptyPhotoUpload)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewLocalPhotoStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewLocalPhotoStore(config.Uploads{Dir: dir}, "contacts.example.com", logger.Nop())

	require.NoError(t, err)
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
