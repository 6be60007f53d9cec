package repository

import (
	"errors"

	apperrors "github.com/allisson/dmvault/internal/errors"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// finishUpdate maps the outcome of a transactional update. Errors raised by the
// caller's UpdateFunc pass through untouched; transaction failures (begin,
// rollback, commit) become ErrStorageUnavailable.
func finishUpdate(txErr, callbackErr error) error {
	if callbackErr != nil {
		if errors.Is(callbackErr, storageDomain.ErrSkipWrite) {
			return nil
		}
		return callbackErr
	}
	if txErr == nil || errors.Is(txErr, storageDomain.ErrStorageUnavailable) {
		return txErr
	}
	return apperrors.WithCause(storageDomain.ErrStorageUnavailable, txErr, "transaction")
}
