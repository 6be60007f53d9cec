// Package usecase authenticates callers against the configured administrator
// account and the user directory.
package usecase

import (
	"context"

	authDomain "github.com/allisson/dmvault/internal/auth/domain"
	userDomain "github.com/allisson/dmvault/internal/user/domain"
)

// UserVerifier checks user credentials. It is satisfied by the user use case.
type UserVerifier interface {
	Verify(ctx context.Context, login, password string) (*userDomain.User, error)
}

// AuthUseCase defines the interface for caller authentication.
type AuthUseCase interface {
	// Authenticate returns the principal for (login, password) or
	// ErrInvalidCredentials. Storage failures are returned as they are.
	Authenticate(ctx context.Context, login, password string) (*authDomain.Principal, error)
}
