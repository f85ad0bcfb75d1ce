package adapter

import (
	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
)

// NewPhotoStore selects the photo storage backend once at startup: the
// remote image host when the integration is enabled, the local uploads
// directory otherwise.
func NewPhotoStore(cfg *config.StructuredConfig, log *logger.Logger) (PhotoStore, error) {
	if cfg.Cloud.Enabled {
		return NewRemotePhotoStore(cfg.Cloud, log), nil
	}

	return NewLocalPhotoStore(cfg.Storage.Uploads, cfg.App.Domain, log)
}
