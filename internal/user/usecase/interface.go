// Package usecase implements the user directory: account management and
// credential verification on top of a sealed document.
package usecase

import (
	"context"

	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
	userDomain "github.com/allisson/dmvault/internal/user/domain"
)

// BlobRepository defines the interface for named blob persistence.
type BlobRepository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Update(ctx context.Context, name string, fn storageDomain.UpdateFunc) error
}

// UserUseCase defines the interface for user directory operations.
type UserUseCase interface {
	// List returns every user sorted by login. Password hashes never leave the
	// use case through List.
	List(ctx context.Context) ([]userDomain.UserSummary, error)

	// Find returns the user with login or ErrUserNotFound.
	Find(ctx context.Context, login string) (*userDomain.User, error)

	// Create adds a user. An empty displayName defaults to login. Returns
	// ErrUserAlreadyExists if login is taken.
	Create(ctx context.Context, login, password, displayName string) (*userDomain.User, error)

	// Update changes the supplied fields of an existing user. Returns
	// ErrUserNotFound if login is absent.
	Update(ctx context.Context, login string, input userDomain.UpdateUserInput) (*userDomain.User, error)

	// Delete removes login. Deleting an absent login is not an error.
	Delete(ctx context.Context, login string) error

	// Verify returns the user when password matches and nil otherwise. An
	// unknown login and a wrong password are indistinguishable to the caller.
	Verify(ctx context.Context, login, password string) (*userDomain.User, error)
}
