package models

import "time"

// User represents an account entity used for authentication and authorization.
// Credential-related fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	UserID int64 `json:"id"`

	// Email is the unique address the user registers and logs in with.
	Email string `json:"email"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Password holds the bcrypt hash of the user's password.
	// Never plaintext, never serialized to JSON.
	Password string `json:"-"`

	// CreatedAt is the timestamp when the user account was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is bumped on every password change.
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
