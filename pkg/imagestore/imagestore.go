// Package imagestore stores uploaded recipe images on the local filesystem.
// Files are kept under a fixed uploads/recipe/ prefix and renamed to a random
// identifier plus the original extension, so user-supplied names can neither
// collide nor escape the upload directory.
package imagestore

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LogicalPrefix is the path prefix stored on recipes and served over HTTP.
const LogicalPrefix = "uploads/recipe/"

// ErrNotImage is returned when the uploaded payload is not a recognized image.
var ErrNotImage = errors.New("uploaded file is not an image")

// Store writes images below baseDir, mirroring the logical prefix on disk.
type Store struct {
	baseDir string
}

// NewStore creates a Store rooted at baseDir and ensures the recipe upload
// directory exists.
func NewStore(baseDir string) (*Store, error) {
	dir := filepath.Join(baseDir, "recipe")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}
	return &Store{baseDir: baseDir}, nil
}

// Save validates that data is an image, stores it under a fresh random name
// and returns the logical path to record on the recipe. The original base
// name is discarded; only its extension survives.
func (s *Store) Save(originalName string, data []byte) (string, error) {
	contentType := http.DetectContentType(data)
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: detected content type %s", ErrNotImage, contentType)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	name := uuid.New().String() + ext
	if err := os.WriteFile(filepath.Join(s.baseDir, "recipe", name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write image %s: %w", name, err)
	}
	return LogicalPrefix + name, nil
}

// Delete removes a previously stored image by its logical path. Paths outside
// the logical prefix are rejected.
func (s *Store) Delete(path string) error {
	if !strings.HasPrefix(path, LogicalPrefix) {
		return fmt.Errorf("refusing to delete %s: outside %s", path, LogicalPrefix)
	}
	name := filepath.Base(strings.TrimPrefix(path, LogicalPrefix))
	if err := os.Remove(filepath.Join(s.baseDir, "recipe", name)); err != nil {
		return fmt.Errorf("failed to delete image %s: %w", path, err)
	}
	return nil
}
