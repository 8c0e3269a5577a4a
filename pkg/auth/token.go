package auth

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"go.stackadmin.dev/authkeys/pkg/encryption"
)

// TokenOptions configures IssueToken.
type TokenOptions struct {
	Issuer    string    // defaults to DefaultIssuer
	ExpiresIn string    // see ParseExpiresIn; defaults to DefaultExpiresIn
	Now       time.Time // issuance time; defaults to time.Now()
}

// GenerateSecret returns length random bytes, Base64 encoded. A length of
// zero or less means DefaultSecretLength.
func GenerateSecret(length int) (string, error) {
	if length <= 0 {
		length = DefaultSecretLength
	}
	b, err := encryption.RandomBytes(length)
	if err != nil {
		return "", fmt.Errorf("unable to generate secret: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

// IssueToken signs an HS256 token granting role, keyed by the raw bytes
// of secret.
func IssueToken(role Role, secret string, opts TokenOptions) (string, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	if secret == "" {
		return "", ErrEmptySecret
	}

	lifetime, err := ParseExpiresIn(opts.ExpiresIn)
	if err != nil {
		return "", err
	}
	issuer := opts.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(lifetime)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("unable to sign %s token: %w", role, err)
	}
	return signed, nil
}
