package encryption

import (
	"errors"
)

var (
	ErrIntegrity          = errors.New("decryption integrity check failed")
	ErrInvalidBlob        = errors.New("invalid encrypted blob")
	ErrUnsupportedAlg     = errors.New("unsupported encryption algorithm")
	ErrInvalidLength      = errors.New("invalid length")
	ErrRandomSourceFailed = errors.New("secure random source failed")
)
