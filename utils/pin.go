package utils

import (
	"crypto/subtle"
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// VerifyPIN checks the submitted PIN against the configured secret.
// APP_PIN_HASH (a bcrypt hash) takes precedence over plaintext APP_PIN;
// the plaintext path uses a constant-time compare. A missing configuration
// is an error distinct from a wrong PIN so the handler can return 500
// instead of silently rejecting everyone.
func VerifyPIN(pin string) (bool, error) {
	if hash := os.Getenv("APP_PIN_HASH"); hash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin))
		return err == nil, nil
	}

	expected := os.Getenv("APP_PIN")
	if expected == "" {
		return false, fmt.Errorf("neither APP_PIN nor APP_PIN_HASH is configured")
	}

	return subtle.ConstantTimeCompare([]byte(pin), []byte(expected)) == 1, nil
}

// HashPIN produces a bcrypt hash suitable for APP_PIN_HASH.
func HashPIN(pin string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(pin), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
