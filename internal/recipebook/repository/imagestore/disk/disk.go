package disk

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dkravets/recipebook/internal/pkg/config"
	"github.com/google/uuid"
)

// ImageStore writes recipe images under the configured media
// directory and hands back the path recorded on the recipe row.
type ImageStore struct {
	mediaDir string
}

func New(cfg config.Storage) (ImageStore, error) {
	if err := os.MkdirAll(filepath.Join(cfg.MediaDir, "recipe"), 0o755); err != nil { //nolint:gomnd
		return ImageStore{}, fmt.Errorf("create media dir error: %w", err)
	}

	return ImageStore{
		mediaDir: cfg.MediaDir,
	}, nil
}

// Save stores the image bytes under a fresh uuid name and returns the
// path relative to the media dir.
func (is ImageStore) Save(data []byte, ext string) (string, error) {
	name := filepath.Join("recipe", uuid.NewString()+"."+ext)

	if err := os.WriteFile(filepath.Join(is.mediaDir, name), data, 0o644); err != nil { //nolint:gomnd
		return "", fmt.Errorf("write image error: %w", err)
	}

	return name, nil
}

// Remove deletes a previously stored image. A missing file is not an
// error, the reference is already gone.
func (is ImageStore) Remove(path string) error {
	if path == "" {
		return nil
	}

	if err := os.Remove(filepath.Join(is.mediaDir, path)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove image error: %w", err)
	}

	return nil
}
