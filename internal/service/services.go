package service

import (
	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/internal/config"
	"github.com/MKhiriev/go-contact-keeper/internal/logger"
	"github.com/MKhiriev/go-contact-keeper/internal/store"
)

type Services struct {
	AuthService    AuthService
	ContactService ContactService
}

func NewServices(storages *store.Storages, cfg *config.StructuredConfig, photoStore adapter.PhotoStore, mailer adapter.Mailer, logger *logger.Logger) *Services {
	return &Services{
		AuthService:    NewAuthService(storages.UserRepository, storages.SessionRepository, mailer, cfg.App, logger),
		ContactService: NewContactService(storages.ContactRepository, photoStore, logger),
	}
}
