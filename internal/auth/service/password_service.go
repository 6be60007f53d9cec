package service

import (
	"github.com/allisson/go-pwdhash"

	apperrors "github.com/allisson/dmvault/internal/errors"
)

// passwordService implements PasswordService using Argon2id.
type passwordService struct {
	hasher *pwdhash.PasswordHasher
}

// HashPassword hashes a plain text password using Argon2id.
func (s *passwordService) HashPassword(password string) (string, error) {
	hash, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return "", apperrors.Wrap(err, "failed to hash password")
	}
	return hash, nil
}

// ComparePassword performs a constant-time comparison between a password and its hash.
func (s *passwordService) ComparePassword(password string, hash string) bool {
	ok, err := s.hasher.Verify([]byte(password), hash)
	if err != nil {
		return false
	}
	return ok
}

// NewPasswordService creates a new PasswordService using Argon2id hashing
// with the Interactive policy, tuned for login latency.
func NewPasswordService() (PasswordService, error) {
	hasher, err := pwdhash.New(pwdhash.WithPolicy(pwdhash.PolicyInteractive))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to create password hasher")
	}

	return &passwordService{
		hasher: hasher,
	}, nil
}
