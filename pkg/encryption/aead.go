package encryption

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
)

const (
	ivSize  = 16
	tagSize = 16
)

// EncryptOption configures a single Encrypt or RotateKey call.
type EncryptOption func(*encryptConfig)

type encryptConfig struct {
	keyVersion int
}

// WithKeyVersion records version in the blob's keyVersion field.
func WithKeyVersion(version int) EncryptOption {
	return func(cfg *encryptConfig) {
		cfg.keyVersion = version
	}
}

// Encrypt seals plaintext with AES-256-GCM under a key derived from password.
//
// A fresh salt and a fresh 128-bit IV are drawn on every call, so encrypting
// the same plaintext twice never yields the same blob.
func Encrypt(plaintext []byte, password string, options ...EncryptOption) (*EncryptedBlob, error) {
	cfg := &encryptConfig{}
	for _, option := range options {
		option(cfg)
	}

	key, salt, err := DeriveKey(password, nil)
	if err != nil {
		return nil, err
	}
	iv, err := RandomBytes(ivSize)
	if err != nil {
		return nil, fmt.Errorf("unable to generate iv: %w", err)
	}

	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := aead.Seal(nil, iv, plaintext, nil)
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return &EncryptedBlob{
		Data:       base64.StdEncoding.EncodeToString(ciphertext),
		IV:         base64.StdEncoding.EncodeToString(iv),
		AuthTag:    base64.StdEncoding.EncodeToString(tag),
		Salt:       base64.StdEncoding.EncodeToString(salt),
		Algorithm:  Algorithm,
		KeyVersion: cfg.keyVersion,
	}, nil
}

// EncryptString is Encrypt for string plaintexts.
func EncryptString(plaintext, password string, options ...EncryptOption) (*EncryptedBlob, error) {
	return Encrypt([]byte(plaintext), password, options...)
}

// Decrypt opens blob with a key re-derived from password and the blob's salt.
//
// The authentication tag is verified before any plaintext is released. A
// wrong password or any modification of the ciphertext, IV or tag yields
// ErrIntegrity and a nil slice.
func Decrypt(blob *EncryptedBlob, password string) ([]byte, error) {
	raw, err := blob.decode()
	if err != nil {
		return nil, err
	}

	key, _, err := DeriveKey(password, raw.salt)
	if err != nil {
		return nil, err
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(raw.ciphertext)+len(raw.tag))
	sealed = append(sealed, raw.ciphertext...)
	sealed = append(sealed, raw.tag...)

	plaintext, err := aead.Open(make([]byte, 0, len(raw.ciphertext)), raw.iv, sealed, nil)
	if err != nil {
		return nil, ErrIntegrity
	}
	return plaintext, nil
}

// DecryptString is Decrypt for string plaintexts.
func DecryptString(blob *EncryptedBlob, password string) (string, error) {
	plaintext, err := Decrypt(blob, password)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// RotateKey re-encrypts blob under newPassword. It fails exactly as Decrypt
// does when oldPassword is wrong.
func RotateKey(blob *EncryptedBlob, oldPassword, newPassword string, options ...EncryptOption) (*EncryptedBlob, error) {
	plaintext, err := Decrypt(blob, oldPassword)
	if err != nil {
		return nil, err
	}
	return Encrypt(plaintext, newPassword, options...)
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("creating AES cipher: %w", err)
	}
	aead, err := cipher.NewGCMWithNonceSize(block, ivSize)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aead, nil
}
