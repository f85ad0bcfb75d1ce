package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-contact-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateResetToken creates a signed HMAC-SHA256 password-reset token.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - email          : the address the reset link is sent to
//
// All parameters are required. Returns an error if any of them are empty or
// zero.
func GenerateResetToken(issuer string, userID int64, email string, tokenDuration time.Duration, signKey string) (models.ResetToken, error) {
	if issuer == "" || email == "" || tokenDuration == 0 || signKey == "" {
		return models.ResetToken{}, errors.New("invalid params for generating reset token")
	}

	now := time.Now()
	claims := models.ResetClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email: email,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("error occurred during signing reset token: %w", err)
	}

	return models.ResetToken{Token: token, ResetClaims: claims, SignedString: tokenString, UserID: userID}, nil
}

// ValidateAndParseResetToken validates the given reset token string and
// extracts its claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to int64 UserID
//
// Returns the parsed token (with UserID and Email populated) or an error if
// validation fails, claims are missing, or the subject cannot be parsed.
func ValidateAndParseResetToken(tokenString, tokenSignKey, tokenIssuer string) (models.ResetToken, error) {
	claims := &models.ResetClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer))
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("error occurred validating and parsing reset token: %w", err)
	}

	userIDStr, err := token.Claims.GetSubject()
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if userIDStr == "" {
		return models.ResetToken{}, errors.New("empty subject error")
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return models.ResetToken{}, fmt.Errorf("error occurred during converting subject to user id: %w", err)
	}

	return models.ResetToken{Token: token, ResetClaims: *claims, SignedString: tokenString, UserID: userID}, nil
}
