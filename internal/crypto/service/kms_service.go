package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"

	"gocloud.dev/secrets"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"

	// Register all KMS provider drivers
	_ "gocloud.dev/secrets/awskms"
	_ "gocloud.dev/secrets/azurekeyvault"
	_ "gocloud.dev/secrets/gcpkms"
	_ "gocloud.dev/secrets/hashivault"
	_ "gocloud.dev/secrets/localsecrets"
)

// KMSService opens KMS keepers through gocloud.dev/secrets.
type KMSService interface {
	// OpenKeeper opens a secrets.Keeper for the given key URI.
	OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error)
}

type kmsService struct{}

// NewKMSService creates a new KMS service instance.
func NewKMSService() KMSService {
	return &kmsService{}
}

// OpenKeeper opens a keeper for keyURI.
// Supports: gcpkms://, awskms://, azurekeyvault://, hashivault://, base64key://
func (k *kmsService) OpenKeeper(ctx context.Context, keyURI string) (cryptoDomain.KMSKeeper, error) {
	keeper, err := secrets.OpenKeeper(ctx, keyURI)
	if err != nil {
		return nil, fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	return keeper, nil
}

// MasterSecretSource describes where the master secret comes from.
type MasterSecretSource struct {
	// Plain is the raw secret (MASTER_SECRET). Used when Ciphertext is empty.
	Plain string
	// Ciphertext is the base64 KMS ciphertext of the secret (MASTER_SECRET_CIPHERTEXT).
	Ciphertext string
	// KMSKeyURI is the keeper URI used to decrypt Ciphertext.
	KMSKeyURI string
}

// LoadMasterSecret builds the process master secret from src.
//
// A KMS-wrapped secret takes precedence over a plain one. Decrypted bytes are
// zeroed once copied into the MasterSecret. Secrets shorter than
// MinMasterSecretLength are accepted with a warning so stores sealed under an
// existing short secret stay readable.
func LoadMasterSecret(
	ctx context.Context,
	kms KMSService,
	src MasterSecretSource,
	logger *slog.Logger,
) (*cryptoDomain.MasterSecret, error) {
	if src.Ciphertext == "" {
		return newCheckedMasterSecret([]byte(src.Plain), logger)
	}

	if src.KMSKeyURI == "" {
		return nil, cryptoDomain.ErrKMSKeyURINotSet
	}

	ciphertext, err := base64.StdEncoding.DecodeString(src.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrInvalidMasterSecretBase64, err)
	}

	keeper, err := kms.OpenKeeper(ctx, src.KMSKeyURI)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = keeper.Close()
	}()

	plaintext, err := keeper.Decrypt(ctx, ciphertext)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt master secret with KMS: %w", err)
	}
	defer cryptoDomain.Zero(plaintext)

	return newCheckedMasterSecret(plaintext, logger)
}

func newCheckedMasterSecret(raw []byte, logger *slog.Logger) (*cryptoDomain.MasterSecret, error) {
	if len(raw) > 0 && len(raw) < cryptoDomain.MinMasterSecretLength && logger != nil {
		logger.Warn("master secret is shorter than recommended",
			slog.Int("length", len(raw)),
			slog.Int("recommended_length", cryptoDomain.MinMasterSecretLength),
		)
	}
	return cryptoDomain.NewMasterSecret(raw)
}
