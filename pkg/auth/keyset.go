package auth

import (
	"errors"
	"fmt"

	"github.com/benbjohnson/clock"
	"go.uber.org/multierr"
)

// DefaultMaxAttempts is the number of generations GenerateValidatedKeySet
// tries when none is given.
const DefaultMaxAttempts = 3

// KeySetOptions configures GenerateKeySet.
type KeySetOptions struct {
	Secret    string      // reused when set, otherwise a new secret is generated
	Issuer    string      // defaults to DefaultIssuer
	ExpiresIn string      // see ParseExpiresIn
	Clock     clock.Clock // defaults to the wall clock
}

func (o KeySetOptions) clock() clock.Clock {
	if o.Clock == nil {
		return clock.New()
	}
	return o.Clock
}

// GenerateKeySet issues an anon and a service_role token signed by the
// same secret and verifies the pair before returning it.
//
// A self-check failure is returned as an *InvariantViolation. That can only
// happen if signing itself is broken, so callers must not retry it as if it
// were transient.
func GenerateKeySet(opts KeySetOptions) (*KeySet, error) {
	secret := opts.Secret
	if secret == "" {
		var err error
		secret, err = GenerateSecret(DefaultSecretLength)
		if err != nil {
			return nil, err
		}
	}

	now := opts.clock().Now()
	tokenOpts := TokenOptions{Issuer: opts.Issuer, ExpiresIn: opts.ExpiresIn, Now: now}

	anon, err := IssueToken(RoleAnon, secret, tokenOpts)
	if err != nil {
		return nil, err
	}
	service, err := IssueToken(RoleServiceRole, secret, tokenOpts)
	if err != nil {
		return nil, err
	}

	keys := &KeySet{
		Secret:       secret,
		AnonToken:    anon,
		ServiceToken: service,
		GeneratedAt:  now,
	}
	if err := selfCheck(keys, opts.Issuer); err != nil {
		return nil, &InvariantViolation{Attempts: 1, SelfCheck: keys.SelfCheck, Err: err}
	}
	return keys, nil
}

// selfCheck fills in keys.SelfCheck and returns the combined failures.
func selfCheck(keys *KeySet, issuer string) error {
	opts := ValidateOptions{Issuer: issuer, Now: keys.GeneratedAt}
	anon := ValidateWith(keys.AnonToken, keys.Secret, opts)
	service := ValidateWith(keys.ServiceToken, keys.Secret, opts)

	keys.SelfCheck = SelfCheck{
		AnonValid:    anon.Valid && anon.Payload.Role == RoleAnon,
		ServiceValid: service.Valid && service.Payload.Role == RoleServiceRole,
		TokensDiffer: !AreIdentical(keys.AnonToken, keys.ServiceToken),
	}

	var err error
	if !keys.SelfCheck.AnonValid {
		err = multierr.Append(err, fmt.Errorf("anon token failed validation: %v", anon.Errors))
	}
	if !keys.SelfCheck.ServiceValid {
		err = multierr.Append(err, fmt.Errorf("service_role token failed validation: %v", service.Errors))
	}
	if !keys.SelfCheck.TokensDiffer {
		err = multierr.Append(err, errors.New("anon and service_role tokens are identical"))
	}
	return err
}

// RegenerateKeys issues a fresh token pair bound to existingSecret. The
// returned KeySet's Secret is existingSecret byte for byte.
func RegenerateKeys(existingSecret string, opts KeySetOptions) (*KeySet, error) {
	if existingSecret == "" {
		return nil, ErrEmptySecret
	}
	opts.Secret = existingSecret
	return GenerateKeySet(opts)
}

// GenerateValidatedKeySet calls GenerateKeySet up to maxAttempts times
// (DefaultMaxAttempts when maxAttempts <= 0) and returns the first key set
// whose self-check passes. Only invariant violations are retried, and
// there is no delay between attempts.
func GenerateValidatedKeySet(opts KeySetOptions, maxAttempts int) (*KeySet, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	var last *InvariantViolation
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		keys, err := GenerateKeySet(opts)
		if err == nil {
			return keys, nil
		}
		if !errors.As(err, &last) {
			return nil, err
		}
	}

	last.Attempts = maxAttempts
	return nil, last
}
