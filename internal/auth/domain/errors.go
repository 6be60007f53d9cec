package domain

import (
	"github.com/allisson/dmvault/internal/errors"
)

// Authentication and authorization errors.
var (
	// ErrInvalidCredentials indicates an unknown login or a wrong password. The
	// two cases are never distinguished.
	ErrInvalidCredentials = errors.Wrap(errors.ErrUnauthorized, "invalid login or password")

	// ErrAdminRequired indicates an operation reserved for the administrator.
	ErrAdminRequired = errors.Wrap(errors.ErrForbidden, "administrator role required")
)
