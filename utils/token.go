package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionDuration matches the 30-day session cookie lifetime.
const SessionDuration = 30 * 24 * time.Hour

func sessionSecret() ([]byte, error) {
	secret := os.Getenv("SESSION_SECRET")
	if secret == "" {
		return nil, fmt.Errorf("SESSION_SECRET environment variable is required")
	}
	return []byte(secret), nil
}

// GenerateSessionToken mints the signed token carried by the session cookie.
// There are no per-user claims: the whole household shares one session
// identity, the token only proves the PIN was entered.
func GenerateSessionToken() (string, error) {
	secret, err := sessionSecret()
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub": "household",
		"iat": now.Unix(),
		"exp": now.Add(SessionDuration).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidateSessionToken checks the cookie token's signature and expiry.
func ValidateSessionToken(tokenString string) error {
	secret, err := sessionSecret()
	if err != nil {
		return err
	}

	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return secret, nil
	})
	if err != nil {
		return fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return fmt.Errorf("invalid session token")
	}
	return nil
}
