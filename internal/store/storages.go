package store

import "github.com/MKhiriev/go-contact-keeper/internal/logger"

type Storages struct {
	UserRepository    UserRepository
	SessionRepository SessionRepository
	ContactRepository ContactRepository
}

func NewStorages(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		UserRepository:    NewUserRepository(db, logger),
		SessionRepository: NewSessionRepository(db, logger),
		ContactRepository: NewContactRepository(db, logger),
	}
}
