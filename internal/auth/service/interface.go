// Package service provides technical services for authentication operations.
//
// This package implements password hashing and verification using Argon2id.
package service

// PasswordService defines operations for password hashing and validation.
// Implementations must use a slow, salted hashing algorithm (e.g., argon2).
type PasswordService interface {
	// HashPassword hashes a plain text password. Every call uses a new salt,
	// so hashing the same password twice yields different hashes.
	HashPassword(password string) (string, error)

	// ComparePassword compares a plain text password against a hash.
	// Returns true if the password matches the hash, false otherwise,
	// including when the hash cannot be parsed.
	ComparePassword(password string, hash string) bool
}
