package models

import (
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"
)

// ResetToken wraps the short-lived JWT used for the password-reset flow.
//
// The token is stateless: it binds {sub: userID, email} under the server's
// signing key and expires five minutes after issuance. SignedString holds
// the compact serialized form (header.payload.signature) that is embedded
// into the emailed reset link.
type ResetToken struct {
	// Token is the underlying JWT used for signing and claim inspection.
	*jwt.Token `json:"-"`

	// ResetClaims is the claim set carried by the token.
	ResetClaims

	// SignedString is the compact JWS representation of the token.
	SignedString string `json:"-"`

	// UserID is the owner identifier extracted from the "sub" claim.
	UserID int64 `json:"-"`
}

// ResetClaims is the claim set of a password-reset token: the registered
// claims plus the email the token was issued for. The email is re-checked
// at redemption time so a token outlives neither the account nor an email
// change.
type ResetClaims struct {
	jwt.RegisteredClaims

	// Email is the address the reset link was sent to.
	Email string `json:"email"`
}

// GetUserID extracts the user identifier from the token's "sub" claim,
// parsed as a base-10 int64.
func (t *ResetToken) GetUserID() (int64, error) {
	userIDString, err := t.ResetClaims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error extracting UserID from token: %w", err)
	}

	userID, err := strconv.ParseInt(userIDString, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error converting UserID from token to int64: %w", err)
	}

	return userID, nil
}

// String returns the compact JWS serialization of the token.
// It implements the [fmt.Stringer] interface.
func (t *ResetToken) String() string {
	return t.SignedString
}
