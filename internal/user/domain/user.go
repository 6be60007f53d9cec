// Package domain defines the user directory model. The directory is persisted
// as one sealed document mapping each login to its password hash and display
// name.
package domain

import (
	"fmt"

	validation "github.com/jellydator/validation"

	"github.com/allisson/dmvault/internal/errors"
	customValidation "github.com/allisson/dmvault/internal/validation"
)

// User is a directory entry.
type User struct {
	Login        string
	DisplayName  string
	PasswordHash string `json:"-"`
}

// UserSummary is the public view of a user. It never carries the password hash.
type UserSummary struct {
	Login       string
	DisplayName string
}

// Summary returns the public view of u.
func (u *User) Summary() UserSummary {
	return UserSummary{Login: u.Login, DisplayName: u.DisplayName}
}

// UpdateUserInput lists the fields to change. Nil fields are left as they are.
type UpdateUserInput struct {
	Password    *string
	DisplayName *string
}

// MaxDisplayNameLength bounds display names.
const MaxDisplayNameLength = 255

// Domain-specific errors for user operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = errors.Wrap(errors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same login already exists.
	ErrUserAlreadyExists = errors.Wrap(errors.ErrConflict, "user already exists")

	// ErrInvalidLogin indicates the login format is invalid.
	ErrInvalidLogin = errors.Wrap(errors.ErrInvalidInput, "invalid login")

	// ErrPasswordRequired indicates the password field is required.
	ErrPasswordRequired = errors.Wrap(errors.ErrInvalidInput, "password is required")

	// ErrInvalidDisplayName indicates a display name that is blank or too long.
	ErrInvalidDisplayName = errors.Wrap(errors.ErrInvalidInput, "invalid display name")
)

// ValidateLogin checks login against the login rule.
func ValidateLogin(login string) error {
	if err := validation.Validate(login, validation.Required, customValidation.Login); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidLogin, err)
	}
	return nil
}

// ValidatePassword rejects empty passwords.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	return nil
}

// ValidateDisplayName rejects blank or overlong display names.
func ValidateDisplayName(displayName string) error {
	err := validation.Validate(displayName,
		validation.Required,
		customValidation.NotBlank,
		validation.RuneLength(1, MaxDisplayNameLength),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDisplayName, err)
	}
	return nil
}
