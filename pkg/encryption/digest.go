package encryption

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"github.com/zeebo/blake3"
)

// Hash returns the hex encoded SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HMAC returns the hex encoded HMAC-SHA256 of data under key.
func HMAC(data, key []byte) string {
	mac := hmac.New(sha256.New, key)
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyHMAC reports whether signature is the HMAC of data under key.
// The comparison is constant time.
func VerifyHMAC(data, key []byte, signature string) bool {
	return hmac.Equal([]byte(HMAC(data, key)), []byte(signature))
}

// Checksum returns a hex encoded BLAKE3-256 integrity checksum of data.
func Checksum(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// VerifyChecksum reports whether checksum matches data, in constant time.
func VerifyChecksum(data []byte, checksum string) bool {
	return hmac.Equal([]byte(Checksum(data)), []byte(checksum))
}
