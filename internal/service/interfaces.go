package service

import (
	"context"

	"github.com/MKhiriev/go-contact-keeper/internal/adapter"
	"github.com/MKhiriev/go-contact-keeper/models"
)

// AuthService manages the authentication session lifecycle: registration,
// login, refresh-token rotation, logout, and the password-reset flow.
type AuthService interface {
	Register(ctx context.Context, request models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, email, password string) (models.Session, error)
	Refresh(ctx context.Context, sessionID int64, refreshToken string) (models.Session, error)
	Logout(ctx context.Context, sessionID int64) error

	// Authenticate resolves an access token to its live session. Used by
	// the HTTP auth middleware on every protected request.
	Authenticate(ctx context.Context, accessToken string) (models.Session, error)

	RequestResetEmail(ctx context.Context, email string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
}

// ContactService executes contact operations on behalf of an authenticated
// user, dispatching optional photo uploads to the configured photo store
// before touching the repository.
type ContactService interface {
	ListContacts(ctx context.Context, userID int64, q models.QueryDescriptor) (models.ContactPage, error)
	GetContact(ctx context.Context, contactID, userID int64) (models.Contact, error)
	CreateContact(ctx context.Context, userID int64, request models.CreateContactRequest, photo *adapter.PhotoUpload) (models.Contact, error)
	UpdateContact(ctx context.Context, contactID, userID int64, update models.ContactUpdate, photo *adapter.PhotoUpload) (models.Contact, error)
	DeleteContact(ctx context.Context, contactID, userID int64) (models.Contact, error)
}
