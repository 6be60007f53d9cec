package service

import (
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/pbkdf2"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
)

// PBKDF2KeyDeriver derives blob keys with PBKDF2-HMAC-SHA256.
//
// The iteration count is fixed at KDFIterations. Each derivation is deliberately
// slow; it runs once per sealed-store read or write, never per message.
type PBKDF2KeyDeriver struct{}

// NewPBKDF2KeyDeriver creates a new PBKDF2KeyDeriver.
func NewPBKDF2KeyDeriver() *PBKDF2KeyDeriver {
	return &PBKDF2KeyDeriver{}
}

// DeriveKey returns a 32-byte key for (secret, salt).
// Returns ErrMalformedInput unless salt is exactly SaltSize bytes.
func (d *PBKDF2KeyDeriver) DeriveKey(secret, salt []byte) ([]byte, error) {
	if len(salt) != cryptoDomain.SaltSize {
		return nil, fmt.Errorf("%w: salt must be %d bytes, got %d",
			cryptoDomain.ErrMalformedInput, cryptoDomain.SaltSize, len(salt))
	}
	return pbkdf2.Key(secret, salt, cryptoDomain.KDFIterations, cryptoDomain.KeySize, sha256.New), nil
}
