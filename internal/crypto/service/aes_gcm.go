package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
)

// AESGCMCipher implements the AEAD interface using AES-256-GCM with a 16-byte
// nonce and a 16-byte tag.
//
// The non-standard nonce size keeps compatibility with the persisted layout,
// where every iv field is 16 bytes. A new nonce is read from crypto/rand for every
// Seal call; nonces are never derived or counted.
//
// The cipher instance is stateless and safe for concurrent use.
type AESGCMCipher struct {
	aead cipher.AEAD
}

// NewAESGCM creates a new AES-256-GCM cipher instance.
// Returns ErrInvalidKeySize unless key is exactly 32 bytes.
func NewAESGCM(key []byte) (*AESGCMCipher, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	aead, err := cipher.NewGCMWithNonceSize(block, cryptoDomain.NonceSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}

	return &AESGCMCipher{aead: aead}, nil
}

// Seal encrypts plaintext and returns the nonce, the detached authentication tag
// and the ciphertext.
func (a *AESGCMCipher) Seal(plaintext []byte) (iv, tag, ciphertext []byte, err error) {
	iv = make([]byte, cryptoDomain.NonceSize)
	if _, err := rand.Read(iv); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to generate nonce: %w", err)
	}

	sealed := a.aead.Seal(nil, iv, plaintext, nil)
	split := len(sealed) - cryptoDomain.TagSize

	tag = append([]byte(nil), sealed[split:]...)

	return iv, tag, sealed[:split:split], nil
}

// Open decrypts ciphertext after verifying tag.
//
// Returns ErrMalformedInput when iv or tag have the wrong length and ErrIntegrity
// when verification fails (tampered data or wrong key).
func (a *AESGCMCipher) Open(iv, tag, ciphertext []byte) ([]byte, error) {
	if len(iv) != cryptoDomain.NonceSize {
		return nil, fmt.Errorf("%w: nonce must be %d bytes, got %d",
			cryptoDomain.ErrMalformedInput, cryptoDomain.NonceSize, len(iv))
	}
	if len(tag) != cryptoDomain.TagSize {
		return nil, fmt.Errorf("%w: tag must be %d bytes, got %d",
			cryptoDomain.ErrMalformedInput, cryptoDomain.TagSize, len(tag))
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := a.aead.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, cryptoDomain.ErrIntegrity
	}
	return plaintext, nil
}
