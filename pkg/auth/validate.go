package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ValidateOptions configures ValidateWith.
type ValidateOptions struct {
	Issuer string    // required iss claim; defaults to DefaultIssuer
	Now    time.Time // reference time for expiry checks; defaults to time.Now()
}

// Decode parses token without verifying its signature. The result is for
// inspection only and must never be used to make a trust decision.
func Decode(token string) (*jwt.Token, *Claims, error) {
	claims := &Claims{}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, claims)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return parsed, claims, nil
}

// Validate checks token against secret at the current time.
func Validate(token, secret string) *ValidationResult {
	return ValidateWith(token, secret, ValidateOptions{})
}

// ValidateAt checks token against secret as of now.
func ValidateAt(token, secret string, now time.Time) *ValidationResult {
	return ValidateWith(token, secret, ValidateOptions{Now: now})
}

// ValidateWith checks the structure, signature and claims of token.
//
// A bad signature is reported as a single error and no payload is
// returned. Otherwise every claim problem is collected so that callers can
// report them together.
func ValidateWith(token, secret string, opts ValidateOptions) *ValidationResult {
	issuer := opts.Issuer
	if issuer == "" {
		issuer = DefaultIssuer
	}
	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	result := &ValidationResult{Errors: []string{}, Warnings: []string{}}

	unverified, _, err := Decode(token)
	if err != nil {
		result.addError(fmt.Sprintf("token could not be decoded: %v", err))
		return result
	}
	if alg, _ := unverified.Header["alg"].(string); alg != jwt.SigningMethodHS256.Alg() {
		result.addWarning(fmt.Sprintf("token is signed with %q, expected %q", alg, jwt.SigningMethodHS256.Alg()))
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	_, err = parser.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		result.addError(fmt.Sprintf("signature verification failed: %v", err))
		return result
	}
	result.Payload = claims

	switch {
	case claims.Role == "":
		result.addError("missing role claim")
	case !claims.Role.Valid():
		result.addError(fmt.Sprintf("invalid role %q: must be one of anon, authenticated, service_role", claims.Role))
	}

	if claims.Issuer != issuer {
		result.addError(fmt.Sprintf("invalid issuer %q: expected %q", claims.Issuer, issuer))
	}

	if claims.IssuedAt == nil {
		result.addWarning("missing iat claim")
	}
	if claims.ExpiresAt == nil {
		result.addWarning("missing exp claim")
	} else {
		exp := claims.ExpiresAt.Time
		switch {
		case exp.Before(now):
			result.addError(fmt.Sprintf("token expired at %s", exp.UTC().Format(time.RFC3339)))
		case exp.Sub(now) < ExpiryWarningWindow:
			result.addWarning(fmt.Sprintf("token expires soon, at %s", exp.UTC().Format(time.RFC3339)))
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}

// AreIdentical reports whether two tokens are exactly the same string.
func AreIdentical(a, b string) bool {
	return a == b
}

// ExpirationDate returns the exp claim of token without verifying it.
func ExpirationDate(token string) (time.Time, error) {
	_, claims, err := Decode(token)
	if err != nil {
		return time.Time{}, err
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, ErrNoExpiration
	}
	return claims.ExpiresAt.Time, nil
}

// IsExpired reports whether token's exp claim is in the past.
func IsExpired(token string) (bool, error) {
	return IsExpiredAt(token, time.Now())
}

// IsExpiredAt reports whether token's exp claim is before now. A token
// without exp never expires.
func IsExpiredAt(token string, now time.Time) (bool, error) {
	exp, err := ExpirationDate(token)
	switch {
	case errors.Is(err, ErrNoExpiration):
		return false, nil
	case err != nil:
		return false, err
	}
	return exp.Before(now), nil
}
