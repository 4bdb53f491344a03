package imagestore_test

import (
	"bytes"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"resep/pkg/imagestore"

	"github.com/stretchr/testify/assert"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
	return buf.Bytes()
}

func TestStore_SaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := imagestore.NewStore(dir)
	assert.NoError(t, err)

	path, err := store.Save("my vacation photo.png", pngBytes(t))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, imagestore.LogicalPrefix))
	assert.True(t, strings.HasSuffix(path, ".png"))
	// The original base name is discarded entirely
	assert.NotContains(t, path, "vacation")

	onDisk := filepath.Join(dir, "recipe", filepath.Base(path))
	data, err := os.ReadFile(onDisk)
	assert.NoError(t, err)
	assert.Equal(t, pngBytes(t), data)

	assert.NoError(t, store.Delete(path))
	_, err = os.Stat(onDisk)
	assert.True(t, os.IsNotExist(err))
}

func TestStore_GeneratesUniqueNames(t *testing.T) {
	store, err := imagestore.NewStore(t.TempDir())
	assert.NoError(t, err)

	first, err := store.Save("same.png", pngBytes(t))
	assert.NoError(t, err)
	second, err := store.Save("same.png", pngBytes(t))
	assert.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestStore_RejectsNonImage(t *testing.T) {
	store, err := imagestore.NewStore(t.TempDir())
	assert.NoError(t, err)

	_, err = store.Save("payload.png", []byte("<html>not an image</html>"))
	assert.ErrorIs(t, err, imagestore.ErrNotImage)
}

func TestStore_RejectsTraversalPaths(t *testing.T) {
	dir := t.TempDir()
	store, err := imagestore.NewStore(dir)
	assert.NoError(t, err)

	// A path-traversal original name cannot influence where the file lands
	path, err := store.Save("../../etc/passwd.png", pngBytes(t))
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, imagestore.LogicalPrefix))

	// Delete refuses paths outside the logical prefix
	err = store.Delete("../secrets.txt")
	assert.Error(t, err)
}
