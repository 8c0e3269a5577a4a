package encryption

import (
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	qt "github.com/frankban/quicktest"
)

const testPassword = "correct-horse-battery-staple-32c"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	plaintexts := [][]byte{
		{},
		[]byte("hello world"),
		{0x00, 0xff, 0x10, 0x80, 0x7f},
		[]byte(strings.Repeat("a long secret value ", 200)),
	}
	for _, plaintext := range plaintexts {
		blob, err := Encrypt(plaintext, testPassword)
		c.Assert(err, qt.IsNil)
		c.Assert(blob.Algorithm, qt.Equals, Algorithm)

		got, err := Decrypt(blob, testPassword)
		c.Assert(err, qt.IsNil)
		c.Assert(string(got), qt.Equals, string(plaintext), qt.Commentf("plaintext of length %d", len(plaintext)))
	}
}

func TestEncryptProducesDistinctIVs(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	a, err := EncryptString("hello world", testPassword)
	c.Assert(err, qt.IsNil)
	b, err := EncryptString("hello world", testPassword)
	c.Assert(err, qt.IsNil)

	c.Assert(a.IV, qt.Not(qt.Equals), b.IV)
	c.Assert(a.Salt, qt.Not(qt.Equals), b.Salt)
	c.Assert(a.Data, qt.Not(qt.Equals), b.Data)

	iv, err := base64.StdEncoding.DecodeString(a.IV)
	c.Assert(err, qt.IsNil)
	c.Assert(iv, qt.HasLen, 16)
}

func TestDecryptWrongPassword(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	blob, err := EncryptString("hello world", testPassword)
	c.Assert(err, qt.IsNil)

	got, err := Decrypt(blob, "wrong-password")
	c.Assert(errors.Is(err, ErrIntegrity), qt.IsTrue, qt.Commentf("got %v", err))
	c.Assert(got, qt.IsNil)
}

func TestDecryptDetectsTampering(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	blob, err := EncryptString("hello world", testPassword)
	c.Assert(err, qt.IsNil)

	flip := func(field string, bit int) string {
		raw, err := base64.StdEncoding.DecodeString(field)
		c.Assert(err, qt.IsNil)
		raw[bit/8] ^= 1 << (bit % 8)
		return base64.StdEncoding.EncodeToString(raw)
	}

	tampered := map[string]func(b *EncryptedBlob){
		"data first bit":    func(b *EncryptedBlob) { b.Data = flip(b.Data, 0) },
		"data last bit":     func(b *EncryptedBlob) { b.Data = flip(b.Data, 8*11-1) },
		"iv middle bit":     func(b *EncryptedBlob) { b.IV = flip(b.IV, 64) },
		"authTag first bit": func(b *EncryptedBlob) { b.AuthTag = flip(b.AuthTag, 0) },
		"authTag last bit":  func(b *EncryptedBlob) { b.AuthTag = flip(b.AuthTag, 127) },
	}
	for name, mutate := range tampered {
		copied := *blob
		mutate(&copied)

		got, err := Decrypt(&copied, testPassword)
		c.Assert(errors.Is(err, ErrIntegrity), qt.IsTrue, qt.Commentf("%s: got %v", name, err))
		c.Assert(got, qt.IsNil, qt.Commentf("%s returned data", name))
	}
}

func TestDecryptRejectsMalformedBlob(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	blob, err := EncryptString("hello world", testPassword)
	c.Assert(err, qt.IsNil)

	badAlg := *blob
	badAlg.Algorithm = "aes-128-cbc"
	_, err = Decrypt(&badAlg, testPassword)
	c.Assert(errors.Is(err, ErrUnsupportedAlg), qt.IsTrue)

	badIV := *blob
	badIV.IV = "!!not base64!!"
	_, err = Decrypt(&badIV, testPassword)
	c.Assert(errors.Is(err, ErrInvalidBlob), qt.IsTrue)

	shortTag := *blob
	shortTag.AuthTag = base64.StdEncoding.EncodeToString([]byte("short"))
	_, err = Decrypt(&shortTag, testPassword)
	c.Assert(errors.Is(err, ErrInvalidBlob), qt.IsTrue)

	_, err = Decrypt(nil, testPassword)
	c.Assert(errors.Is(err, ErrInvalidBlob), qt.IsTrue)
}

func TestBlobWireFormat(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	blob, err := EncryptString("hello world", testPassword, WithKeyVersion(3))
	c.Assert(err, qt.IsNil)

	data, err := blob.Marshal()
	c.Assert(err, qt.IsNil)
	for _, field := range []string{`"data"`, `"iv"`, `"authTag"`, `"salt"`, `"algorithm":"aes-256-gcm"`, `"keyVersion":3`} {
		c.Assert(strings.Contains(string(data), field), qt.IsTrue, qt.Commentf("missing %s in %s", field, data))
	}

	parsed, err := ParseBlob(data)
	c.Assert(err, qt.IsNil)
	got, err := DecryptString(parsed, testPassword)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "hello world")

	unversioned, err := EncryptString("x", testPassword)
	c.Assert(err, qt.IsNil)
	data, err = unversioned.Marshal()
	c.Assert(err, qt.IsNil)
	c.Assert(strings.Contains(string(data), "keyVersion"), qt.IsFalse)

	_, err = ParseBlob([]byte("{not json"))
	c.Assert(errors.Is(err, ErrInvalidBlob), qt.IsTrue)
}

func TestRotateKey(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	const newPassword = "a-completely-different-password-value"

	blob, err := EncryptString("rotate me", testPassword, WithKeyVersion(1))
	c.Assert(err, qt.IsNil)

	rotated, err := RotateKey(blob, testPassword, newPassword, WithKeyVersion(2))
	c.Assert(err, qt.IsNil)
	c.Assert(rotated.KeyVersion, qt.Equals, 2)

	got, err := DecryptString(rotated, newPassword)
	c.Assert(err, qt.IsNil)
	c.Assert(got, qt.Equals, "rotate me")

	_, err = DecryptString(rotated, testPassword)
	c.Assert(errors.Is(err, ErrIntegrity), qt.IsTrue)

	_, err = RotateKey(blob, "wrong-password", newPassword)
	c.Assert(errors.Is(err, ErrIntegrity), qt.IsTrue)
}

func TestDeriveKey(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	key, salt, err := DeriveKey(testPassword, nil)
	c.Assert(err, qt.IsNil)
	c.Assert(key, qt.HasLen, KeySize)
	c.Assert(salt, qt.HasLen, SaltSize)

	again, sameSalt, err := DeriveKey(testPassword, salt)
	c.Assert(err, qt.IsNil)
	c.Assert(again, qt.DeepEquals, key)
	c.Assert(sameSalt, qt.DeepEquals, salt)

	other, _, err := DeriveKey("another password", salt)
	c.Assert(err, qt.IsNil)
	c.Assert(other, qt.Not(qt.DeepEquals), key)
}

func TestRandom(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	a, err := RandomBytes(32)
	c.Assert(err, qt.IsNil)
	b, err := RandomBytes(32)
	c.Assert(err, qt.IsNil)
	c.Assert(a, qt.HasLen, 32)
	c.Assert(a, qt.Not(qt.DeepEquals), b)

	s, err := RandomString(48)
	c.Assert(err, qt.IsNil)
	c.Assert(s, qt.HasLen, 48)
	c.Assert(strings.Trim(s, alphanumeric), qt.Equals, "")

	_, err = RandomBytes(0)
	c.Assert(errors.Is(err, ErrInvalidLength), qt.IsTrue)
	_, err = RandomString(-1)
	c.Assert(errors.Is(err, ErrInvalidLength), qt.IsTrue)
}

func TestDigests(t *testing.T) {
	t.Parallel()
	c := qt.New(t)

	data := []byte("hello world")
	key := []byte("mac key")

	c.Assert(Hash(data), qt.Equals, "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9")
	c.Assert(Hash(data), qt.Not(qt.Equals), Hash([]byte("hello world!")))

	mac := HMAC(data, key)
	c.Assert(mac, qt.HasLen, 64)
	c.Assert(VerifyHMAC(data, key, mac), qt.IsTrue)
	c.Assert(VerifyHMAC(data, []byte("other key"), mac), qt.IsFalse)
	c.Assert(VerifyHMAC([]byte("hello world!"), key, mac), qt.IsFalse)

	sum := Checksum(data)
	c.Assert(sum, qt.HasLen, 64)
	c.Assert(sum, qt.Not(qt.Equals), Hash(data))
	c.Assert(VerifyChecksum(data, sum), qt.IsTrue)
	c.Assert(VerifyChecksum([]byte("hello worle"), sum), qt.IsFalse)
}
