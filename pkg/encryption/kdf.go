package encryption

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyIterations is the PBKDF2 iteration count. Changing it makes
	// every existing blob undecryptable.
	KeyIterations = 100_000
	KeySize       = 32 // AES-256
	SaltSize      = 32
)

// DeriveKey derives a 256-bit key from password using PBKDF2-SHA256.
//
// If salt is empty a fresh random salt is generated. The salt actually
// used is always returned and must be stored alongside anything encrypted
// with the key.
func DeriveKey(password string, salt []byte) (key, usedSalt []byte, err error) {
	if len(salt) == 0 {
		salt, err = RandomBytes(SaltSize)
		if err != nil {
			return nil, nil, fmt.Errorf("unable to generate salt: %w", err)
		}
	}

	key = pbkdf2.Key([]byte(password), salt, KeyIterations, KeySize, sha256.New)
	return key, salt, nil
}
