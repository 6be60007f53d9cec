package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// SealedDocument is a JSON document of type T stored as a single EncryptedBlob.
//
// A blob that was never written reads as the zero document. A blob that exists
// but cannot be opened or decoded is handled by the configured RecoveryPolicy:
// RecoveryFail returns ErrStoreUnreadable wrapping the cause, RecoveryReset
// logs it and reads as the zero document so the next write replaces it.
type SealedDocument[T any] struct {
	repo   BlobRepository
	name   string
	sealer cryptoService.BlobSealer
	policy cryptoDomain.RecoveryPolicy
	logger *slog.Logger
}

// NewSealedDocument creates a SealedDocument stored under blob name.
func NewSealedDocument[T any](
	repo BlobRepository,
	name string,
	sealer cryptoService.BlobSealer,
	policy cryptoDomain.RecoveryPolicy,
	logger *slog.Logger,
) *SealedDocument[T] {
	return &SealedDocument[T]{
		repo:   repo,
		name:   name,
		sealer: sealer,
		policy: policy,
		logger: logger,
	}
}

// Load reads and decrypts the document.
func (d *SealedDocument[T]) Load(ctx context.Context) (T, error) {
	var doc T

	data, err := d.repo.Get(ctx, d.name)
	if err != nil {
		if errors.Is(err, storageDomain.ErrBlobNotFound) {
			return doc, nil
		}
		return doc, err
	}

	return d.decode(data)
}

// Update applies fn to the current document and stores the result, re-sealed
// under a new salt, in one atomic read-modify-write. fn may return
// storageDomain.ErrSkipWrite to leave the stored blob unchanged.
func (d *SealedDocument[T]) Update(ctx context.Context, fn func(doc T) (T, error)) error {
	return d.repo.Update(ctx, d.name, func(current []byte, found bool) ([]byte, error) {
		var doc T
		if found {
			var err error
			if doc, err = d.decode(current); err != nil {
				return nil, err
			}
		}

		next, err := fn(doc)
		if err != nil {
			return nil, err
		}

		plaintext, err := json.Marshal(next)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", d.name, err)
		}
		defer cryptoDomain.Zero(plaintext)

		return d.sealer.Seal(plaintext)
	})
}

func (d *SealedDocument[T]) decode(data []byte) (T, error) {
	var doc T

	plaintext, err := d.sealer.Open(data)
	if err == nil {
		defer cryptoDomain.Zero(plaintext)
		if jsonErr := json.Unmarshal(plaintext, &doc); jsonErr != nil {
			err = fmt.Errorf("%w: %v", cryptoDomain.ErrMalformedInput, jsonErr)
		}
	}
	if err == nil {
		return doc, nil
	}

	recoverable := errors.Is(err, cryptoDomain.ErrIntegrity) || errors.Is(err, cryptoDomain.ErrMalformedInput)
	if !recoverable {
		return doc, fmt.Errorf("failed to open %s: %w", d.name, err)
	}
	if d.policy != cryptoDomain.RecoveryReset {
		return doc, fmt.Errorf("%w: failed to open %s: %w", cryptoDomain.ErrStoreUnreadable, d.name, err)
	}

	d.logger.Warn("sealed store unreadable, treating as empty",
		slog.String("blob", d.name),
		slog.Any("error", err),
	)

	var empty T
	return empty, nil
}
