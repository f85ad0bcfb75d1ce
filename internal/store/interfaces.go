package store

import (
	"context"

	"github.com/MKhiriev/go-contact-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists and looks up user accounts.
type UserRepository interface {
	// CreateUser inserts a new account and returns it with server-assigned
	// fields populated. Returns ErrEmailAlreadyExists on a duplicate email.
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail returns the account registered under email, or
	// ErrUserNotFound.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// FindUserByIDAndEmail returns the account matching both identifiers,
	// or ErrUserNotFound. Used when redeeming password-reset tokens.
	FindUserByIDAndEmail(ctx context.Context, userID int64, email string) (models.User, error)

	// UpdateUserPassword overwrites the stored password hash.
	UpdateUserPassword(ctx context.Context, userID int64, passwordHash string) error
}

// SessionRepository persists authentication sessions. A user has at most
// one session; replacement and rotation are transactional.
type SessionRepository interface {
	// ReplaceUserSession deletes any session owned by session.UserID and
	// inserts session in the same transaction. Returns the stored session
	// with its server-assigned ID.
	ReplaceUserSession(ctx context.Context, session models.Session) (models.Session, error)

	// FindSessionByAccessToken returns the session carrying the exact
	// access token, or ErrSessionNotFound.
	FindSessionByAccessToken(ctx context.Context, accessToken string) (models.Session, error)

	// FindSessionByIDAndToken returns the session matching the exact
	// (session id, refresh token) pair, or ErrSessionNotFound.
	FindSessionByIDAndToken(ctx context.Context, sessionID int64, refreshToken string) (models.Session, error)

	// RotateSession deletes the session matching the exact (session id,
	// refresh token) pair and inserts replacement in one transaction.
	// Returns ErrSessionNotFound when no row matches the pair, so that
	// concurrent refreshes with the same stale token admit one winner.
	RotateSession(ctx context.Context, sessionID int64, refreshToken string, replacement models.Session) (models.Session, error)

	// DeleteSessionByID removes the session. Deleting a nonexistent
	// session is not an error.
	DeleteSessionByID(ctx context.Context, sessionID int64) error

	// DeleteSessionsByUser removes every session owned by userID.
	DeleteSessionsByUser(ctx context.Context, userID int64) error
}

// ContactRepository persists contact records. Every operation is scoped by
// the owning user: a contact owned by someone else is reported as
// ErrContactNotFound, never as a distinct "forbidden" condition.
type ContactRepository interface {
	// ListContacts returns one page of userID's contacts per the
	// descriptor, plus the total number of rows matching the filter.
	ListContacts(ctx context.Context, userID int64, q models.QueryDescriptor) ([]models.Contact, int64, error)

	// GetContactByID returns the contact owned by userID, or
	// ErrContactNotFound.
	GetContactByID(ctx context.Context, contactID, userID int64) (models.Contact, error)

	// CreateContact inserts a new contact owned by userID and returns it
	// with server-assigned fields populated.
	CreateContact(ctx context.Context, contact models.Contact) (models.Contact, error)

	// UpdateContact applies the non-nil fields of update to the contact
	// owned by userID and returns the updated row, or ErrContactNotFound.
	UpdateContact(ctx context.Context, contactID, userID int64, update models.ContactUpdate) (models.Contact, error)

	// DeleteContact removes the contact owned by userID and returns the
	// removed row, or ErrContactNotFound.
	DeleteContact(ctx context.Context, contactID, userID int64) (models.Contact, error)
}
