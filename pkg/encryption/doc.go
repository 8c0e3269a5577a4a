// Package encryption provides the symmetric primitives used to protect
// secrets at rest: CSPRNG helpers, PBKDF2 key derivation, AES-256-GCM
// encryption into a portable EncryptedBlob, and one-way digests for
// hashing, message authentication and integrity checksums.
//
// EncryptedBlob is a wire format: blobs written here decrypt in any other
// implementation that uses the same PBKDF2 parameters, and vice versa.
package encryption
