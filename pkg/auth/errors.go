package auth

import (
	"errors"
	"fmt"
)

var (
	ErrEmptySecret         = errors.New("secret must not be empty")
	ErrInvalidRole         = errors.New("invalid role")
	ErrInvalidDuration     = errors.New("invalid duration")
	ErrMalformedToken      = errors.New("malformed token")
	ErrNoExpiration        = errors.New("token has no expiration")
	ErrGenerationInvariant = errors.New("key set generation invariant violated")
)

// InvariantViolation is returned when a freshly generated key set fails
// its own self-check. It signals a defect in the generator, never a
// transient condition.
type InvariantViolation struct {
	Attempts  int
	SelfCheck SelfCheck
	Err       error // the individual self-check failures
}

func (e *InvariantViolation) Error() string {
	if e.Attempts > 1 {
		return fmt.Sprintf("%s after %d attempts: %v", ErrGenerationInvariant, e.Attempts, e.Err)
	}
	return fmt.Sprintf("%s: %v", ErrGenerationInvariant, e.Err)
}

func (e *InvariantViolation) Unwrap() error {
	return ErrGenerationInvariant
}
