package encryption

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

const alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// RandomBytes returns n bytes read from the operating system's CSPRNG.
func RandomBytes(n int) ([]byte, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d random bytes requested", ErrInvalidLength, n)
	}

	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRandomSourceFailed, err)
	}
	return b, nil
}

// RandomString returns an alphanumeric string of length n. Each character
// is drawn uniformly so the output carries no modulo bias.
func RandomString(n int) (string, error) {
	if n <= 0 {
		return "", fmt.Errorf("%w: %d random characters requested", ErrInvalidLength, n)
	}

	limit := big.NewInt(int64(len(alphanumeric)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRandomSourceFailed, err)
		}
		b[i] = alphanumeric[idx.Int64()]
	}
	return string(b), nil
}
