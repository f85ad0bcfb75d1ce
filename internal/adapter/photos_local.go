package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/google/uuid"
)

// localPhotoStore persists uploaded photos in a directory on the local
// filesystem and resolves them to URLs under /uploads/ on the application
// domain.
//
// Writes go to a temporary file first and are renamed into place, so a
// failed upload never leaves a partially written photo behind a resolvable
// URL.
type localPhotoStore struct {
	dir    string
	domain string
	logger *logger.Logger
}

// NewLocalPhotoStore constructs a [PhotoStore] writing into cfg.Dir.
// The directory is created if it does not exist.
func NewLocalPhotoStore(cfg config.Uploads, domain string, log *logger.Logger) (PhotoStore, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		log.Err(err).Str("dir", cfg.Dir).Msg("failed to create uploads directory")
		return nil, fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	log.Debug().Str("dir", cfg.Dir).Msg("creating local photo store")
	return &localPhotoStore{
		dir:    cfg.Dir,
		domain: domain,
		logger: log,
	}, nil
}

// Store writes the photo into the uploads directory under a
// server-generated unique name and returns its servable URL.
func (s *localPhotoStore) Store(ctx context.Context, upload PhotoUpload) (string, error) {
	log := logger.FromContext(ctx)

	if len(upload.Data) == 0 {
		return "", ErrEmptyPhotoUpload
	}

	name := uniqueFileName(upload.Filename)

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		log.Err(err).Str("func", "localPhotoStore.Store").Msg("failed to create temp file")
		return "", fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	if _, err = tmp.Write(upload.Data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		log.Err(err).Str("func", "localPhotoStore.Store").Msg("failed to write photo")
		return "", fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	if err = tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	finalPath := filepath.Join(s.dir, name)
	if err = os.Rename(tmp.Name(), finalPath); err != nil {
		os.Remove(tmp.Name())
		log.Err(err).Str("func", "localPhotoStore.Store").Str("path", finalPath).Msg("failed to move photo into place")
		return "", fmt.Errorf("%w: %w", ErrStoringPhoto, err)
	}

	return fmt.Sprintf("https://%s/uploads/%s", s.domain, name), nil
}

// uniqueFileName prefixes the sanitized client file name with a fresh UUID
// so concurrent uploads of identically named files never collide.
func uniqueFileName(original string) string {
	base := filepath.Base(strings.TrimSpace(original))
	if base == "." || base == string(filepath.Separator) || base == "" {
		base = "photo"
	}
	base = strings.ReplaceAll(base, " ", "_")

	return uuid.NewString() + "_" + base
}
