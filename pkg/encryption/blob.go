package encryption

import (
	"encoding/base64"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Algorithm is the only algorithm identifier written to, and accepted
// from, an EncryptedBlob.
const Algorithm = "aes-256-gcm"

// EncryptedBlob is the persisted form of an encrypted value. All binary
// fields are standard (padded, not URL-safe) Base64.
type EncryptedBlob struct {
	Data       string `json:"data"`
	IV         string `json:"iv"`
	AuthTag    string `json:"authTag"`
	Salt       string `json:"salt"`
	Algorithm  string `json:"algorithm"`
	KeyVersion int    `json:"keyVersion,omitempty"`
}

// Marshal returns the JSON wire form of the blob.
func (b *EncryptedBlob) Marshal() ([]byte, error) {
	return json.Marshal(b)
}

// ParseBlob decodes the JSON wire form of a blob. It only checks that
// the document is well formed; field contents are checked by Decrypt.
func ParseBlob(data []byte) (*EncryptedBlob, error) {
	blob := &EncryptedBlob{}
	if err := json.Unmarshal(data, blob); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBlob, err)
	}
	return blob, nil
}

type rawBlob struct {
	ciphertext []byte
	iv         []byte
	tag        []byte
	salt       []byte
}

func (b *EncryptedBlob) decode() (*rawBlob, error) {
	if b == nil {
		return nil, fmt.Errorf("%w: nil blob", ErrInvalidBlob)
	}
	if b.Algorithm != Algorithm {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, b.Algorithm)
	}

	var (
		raw rawBlob
		err error
	)
	fields := []struct {
		name string
		src  string
		dst  *[]byte
		size int
	}{
		{"data", b.Data, &raw.ciphertext, -1},
		{"iv", b.IV, &raw.iv, ivSize},
		{"authTag", b.AuthTag, &raw.tag, tagSize},
		{"salt", b.Salt, &raw.salt, -1},
	}
	for _, f := range fields {
		*f.dst, err = base64.StdEncoding.DecodeString(f.src)
		if err != nil {
			return nil, fmt.Errorf("%w: field %s is not valid base64", ErrInvalidBlob, f.name)
		}
		if f.size > 0 && len(*f.dst) != f.size {
			return nil, fmt.Errorf("%w: field %s must be %d bytes, got %d", ErrInvalidBlob, f.name, f.size, len(*f.dst))
		}
	}
	if len(raw.salt) == 0 {
		return nil, fmt.Errorf("%w: missing salt", ErrInvalidBlob)
	}

	return &raw, nil
}
