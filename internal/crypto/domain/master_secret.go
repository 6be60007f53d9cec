package domain

import (
	"context"
	"sync"
)

// KMSKeeper is the subset of a KMS keeper (gocloud.dev/secrets.Keeper) used to
// unwrap a master secret that is stored encrypted in configuration.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}

// MasterSecret is the root of trust for everything sealed at rest.
//
// It is supplied once at process start, held read-only for the process lifetime
// and never persisted. Every EncryptedBlob key is derived from it with a fresh
// salt, so losing it makes all stored data unrecoverable.
//
// A MasterSecret is passed explicitly to the components that need it; there is
// no package-level instance.
type MasterSecret struct {
	mu     sync.RWMutex
	secret []byte
}

// NewMasterSecret copies raw into a new MasterSecret.
// Returns ErrMasterSecretNotSet when raw is empty.
func NewMasterSecret(raw []byte) (*MasterSecret, error) {
	if len(raw) == 0 {
		return nil, ErrMasterSecretNotSet
	}

	secret := make([]byte, len(raw))
	copy(secret, raw)

	return &MasterSecret{secret: secret}, nil
}

// Use calls fn with the secret bytes. fn must not retain or modify the slice.
func (m *MasterSecret) Use(fn func(secret []byte) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.secret) == 0 {
		return ErrMasterSecretNotSet
	}
	return fn(m.secret)
}

// Close zeroes the secret. Any later Use returns ErrMasterSecretNotSet.
func (m *MasterSecret) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	Zero(m.secret)
	m.secret = nil
}
