package models

import "time"

// Session is the server-side record binding a user to a pair of opaque
// bearer tokens with independent expiries. At most one session exists per
// user: a new login replaces any previous one.
type Session struct {
	// SessionID is the internal unique identifier of the session.
	SessionID int64 `json:"session_id"`

	// UserID is the owner of the session.
	UserID int64 `json:"-"`

	// AccessToken is the short-lived bearer credential presented on every
	// authenticated request. Opaque random bytes, not decodable.
	AccessToken string `json:"access_token"`

	// RefreshToken is the longer-lived, single-use credential used to mint
	// a replacement session.
	RefreshToken string `json:"-"`

	// AccessTokenValidUntil is the instant after which the access token is
	// rejected.
	AccessTokenValidUntil time.Time `json:"access_token_valid_until"`

	// RefreshTokenValidUntil is the instant after which the refresh token is
	// rejected.
	RefreshTokenValidUntil time.Time `json:"-"`
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// AccessTokenExpired reports whether the access token is no longer valid
// at the given instant.
func (s Session) AccessTokenExpired(now time.Time) bool {
	return now.After(s.AccessTokenValidUntil)
}

// RefreshTokenExpired reports whether the refresh token is no longer valid
// at the given instant.
func (s Session) RefreshTokenExpired(now time.Time) bool {
	return now.After(s.RefreshTokenValidUntil)
}
