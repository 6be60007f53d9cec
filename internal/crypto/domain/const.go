package domain

// Sizes of the sealed formats. They are part of the persisted layout: changing any of
// them makes existing blobs unreadable.
const (
	// KeySize is the size of every symmetric key (AES-256).
	KeySize = 32

	// NonceSize is the size of the AES-GCM nonce drawn for every seal operation.
	NonceSize = 16

	// TagSize is the size of the GCM authentication tag.
	TagSize = 16

	// SaltSize is the size of the random salt stored at the head of an EncryptedBlob.
	SaltSize = 32

	// KDFIterations is the PBKDF2-HMAC-SHA256 iteration count used to derive
	// blob keys from the master secret.
	KDFIterations = 100_000

	// MinMasterSecretLength is the recommended minimum master secret length.
	// Shorter secrets are accepted with a warning.
	MinMasterSecretLength = 32
)

// RecoveryPolicy decides what happens when a sealed store exists on disk but
// cannot be opened with the configured master secret.
type RecoveryPolicy string

const (
	// RecoveryFail surfaces the integrity or format error to the caller.
	RecoveryFail RecoveryPolicy = "fail"

	// RecoveryReset logs the failure and treats the store as empty. The next write
	// replaces the unreadable blob.
	RecoveryReset RecoveryPolicy = "reset"
)

// ParseRecoveryPolicy converts a configuration value to a RecoveryPolicy.
// An empty value selects RecoveryFail.
func ParseRecoveryPolicy(value string) (RecoveryPolicy, error) {
	switch RecoveryPolicy(value) {
	case "", RecoveryFail:
		return RecoveryFail, nil
	case RecoveryReset:
		return RecoveryReset, nil
	default:
		return "", ErrInvalidRecoveryPolicy
	}
}
