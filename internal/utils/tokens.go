package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// OpaqueTokenBytes is the entropy of a session bearer token. Thirty random
// bytes keep the base64 form free of padding and well above brute-force
// reach.
const OpaqueTokenBytes = 30

// GenerateOpaqueToken returns a cryptographically random bearer string of
// OpaqueTokenBytes entropy, encoded with standard base64. The result is an
// opaque credential: it carries no structure and cannot be decoded into
// anything meaningful.
func GenerateOpaqueToken() (string, error) {
	buf := make([]byte, OpaqueTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("error generating random token bytes: %w", err)
	}

	return base64.StdEncoding.EncodeToString(buf), nil
}
