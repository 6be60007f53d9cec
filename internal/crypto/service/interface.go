// Package service provides the cryptographic primitives used to seal data at rest:
// an AES-256-GCM AEAD, PBKDF2 key derivation from the master secret, and a sealer
// that turns arbitrary payloads into self-contained EncryptedBlobs.
package service

import (
	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
)

// AEAD defines the interface for Authenticated Encryption with Associated Data
// bound to a single key.
type AEAD interface {
	// Seal encrypts plaintext under a freshly drawn nonce.
	Seal(plaintext []byte) (iv, tag, ciphertext []byte, err error)

	// Open verifies the tag and returns the plaintext. It fails with
	// ErrMalformedInput or ErrIntegrity and never returns partial output.
	Open(iv, tag, ciphertext []byte) ([]byte, error)
}

// AEADManager defines the interface for creating AEAD cipher instances.
type AEADManager interface {
	// CreateCipher creates an AEAD cipher instance bound to key.
	CreateCipher(key []byte) (AEAD, error)
}

// KeyDeriver derives blob keys from the master secret.
type KeyDeriver interface {
	// DeriveKey returns a KeySize key for (secret, salt). Equal inputs always
	// produce equal keys.
	DeriveKey(secret, salt []byte) ([]byte, error)
}

// BlobSealer seals payloads under keys derived from the master secret.
type BlobSealer interface {
	// Seal returns the wire form of an EncryptedBlob holding plaintext.
	Seal(plaintext []byte) ([]byte, error)

	// Open parses the wire form and returns the plaintext.
	Open(data []byte) ([]byte, error)

	// SealBlob encrypts plaintext with a fresh salt and nonce.
	SealBlob(plaintext []byte) (cryptoDomain.EncryptedBlob, error)

	// OpenBlob decrypts a blob previously produced by SealBlob.
	OpenBlob(blob cryptoDomain.EncryptedBlob) ([]byte, error)
}
