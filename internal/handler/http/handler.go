package http

import (
	"time"

	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/service"
)

type Handler struct {
	services *service.Services

	version        string
	uploadsDir     string
	serveUploads   bool
	requestTimeout time.Duration

	logger *logger.Logger
}

func NewHandler(services *service.Services, cfg *config.StructuredConfig, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services:       services,
		version:        cfg.App.Version,
		uploadsDir:     cfg.Storage.Uploads.Dir,
		serveUploads:   !cfg.Cloud.Enabled,
		requestTimeout: cfg.Server.RequestTimeout,
		logger:         logger,
	}
}
