package oauth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
)

// GenerateState returns a cryptographically random anti-CSRF state
// parameter for the authorization request.
func GenerateState() (string, error) {
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(nonce), nil
}

// VerifyState checks the state echoed by the callback against the one sent
// in the authorization request. A mismatch means the callback cannot be
// trusted and the login must fail.
func VerifyState(want, got string) error {
	if want == "" {
		return fmt.Errorf("no state parameter was generated for this login")
	}
	if subtle.ConstantTimeCompare([]byte(want), []byte(got)) != 1 {
		return fmt.Errorf("state parameter mismatch, discarding authorization code")
	}
	return nil
}
