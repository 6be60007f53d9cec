package domain

import (
	"github.com/allisson/dmvault/internal/errors"
)

// Cryptographic operation error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// so the HTTP layer can map them without knowing about cryptography.
var (
	// ErrInvalidKeySize indicates a key that is not exactly KeySize bytes.
	ErrInvalidKeySize = errors.Wrap(errors.ErrInvalidInput, "invalid key size")

	// ErrIntegrity indicates that authentication tag verification failed.
	//
	// The ciphertext, tag or nonce was modified, or the wrong key (or master
	// secret) was used. The specific cause is not disclosed.
	ErrIntegrity = errors.Wrap(errors.ErrInvalidInput, "integrity check failed")

	// ErrMalformedInput indicates a structurally invalid sealed value: a blob
	// shorter than its header, or a nonce/tag of the wrong length.
	ErrMalformedInput = errors.Wrap(errors.ErrInvalidInput, "malformed encrypted input")

	// ErrMasterSecretNotSet indicates that neither MASTER_SECRET nor
	// MASTER_SECRET_CIPHERTEXT was configured.
	ErrMasterSecretNotSet = errors.Wrap(errors.ErrInvalidInput, "master secret is not set")

	// ErrInvalidMasterSecretBase64 indicates MASTER_SECRET_CIPHERTEXT is not valid base64.
	ErrInvalidMasterSecretBase64 = errors.Wrap(errors.ErrInvalidInput, "invalid master secret base64")

	// ErrKMSKeyURINotSet indicates a KMS-encrypted master secret without KMS_KEY_URI.
	ErrKMSKeyURINotSet = errors.Wrap(errors.ErrInvalidInput, "kms key uri is not set")

	// ErrStoreUnreadable indicates a persisted store that exists but cannot be
	// opened or decoded. It is a server fault: the integrity or format cause
	// stays in the chain next to it.
	ErrStoreUnreadable = errors.Wrap(errors.ErrCorrupted, "store cannot be read")

	// ErrInvalidRecoveryPolicy indicates an unknown CORRUPT_STORE_POLICY value.
	ErrInvalidRecoveryPolicy = errors.Wrap(errors.ErrInvalidInput, "invalid recovery policy")
)

// ErrEmptyConversationID indicates a conversation key lookup without an id.
var ErrEmptyConversationID = errors.Wrap(errors.ErrInvalidInput, "conversation id is required")
