// Package domain defines the named-blob storage model shared by every store.
//
// Each store persists its whole state as one opaque blob: the sealed user
// directory, the sealed conversation key mapping and the message log. Backends
// only move bytes; they never see plaintext.
package domain

import (
	"errors"

	apperrors "github.com/allisson/dmvault/internal/errors"
)

// Blob names. They double as file names for the file backend so a data
// directory keeps the same layout regardless of which process wrote it.
const (
	// BlobUsers holds the sealed user directory.
	BlobUsers = "users.enc"

	// BlobConversationKeys holds the sealed conversation key mapping.
	BlobConversationKeys = "conv_keys.enc"

	// BlobMessages holds the message log. Only message payloads are encrypted.
	BlobMessages = "messages.json"
)

var (
	// ErrBlobNotFound indicates the blob has never been written.
	ErrBlobNotFound = apperrors.Wrap(apperrors.ErrNotFound, "blob not found")

	// ErrStorageUnavailable indicates the backing medium could not be read or written.
	ErrStorageUnavailable = apperrors.Wrap(apperrors.ErrUnavailable, "storage unavailable")

	// ErrInvalidBlobName indicates a blob name that is empty or contains a path separator.
	ErrInvalidBlobName = apperrors.Wrap(apperrors.ErrInvalidInput, "invalid blob name")

	// ErrSkipWrite may be returned by an UpdateFunc to end the update without
	// writing. Update then returns nil.
	ErrSkipWrite = errors.New("skip write")
)

// UpdateFunc receives the current blob content (found is false for a blob that
// has never been written) and returns the content to store.
type UpdateFunc func(current []byte, found bool) ([]byte, error)
