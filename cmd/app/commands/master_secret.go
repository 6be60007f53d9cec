package commands

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"log/slog"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
)

// generatedSecretLength is the number of random bytes in a new master secret.
// The base64 form handed to MASTER_SECRET is longer than MinMasterSecretLength.
const generatedSecretLength = 32

// RunCreateMasterSecret generates a random master secret.
//
// Without kmsKeyURI the secret is printed as MASTER_SECRET in base64. With a
// kmsKeyURI the base64 text is encrypted with the KMS key and printed as
// MASTER_SECRET_CIPHERTEXT together with KMS_PROVIDER and KMS_KEY_URI.
//
// Security: Never use the localsecrets provider in production.
func RunCreateMasterSecret(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	logger *slog.Logger,
	writer io.Writer,
	kmsProvider, kmsKeyURI string,
) error {
	if kmsKeyURI != "" && kmsProvider == "" {
		return fmt.Errorf("--kms-provider is required when --kms-key-uri is set")
	}

	raw := make([]byte, generatedSecretLength)
	if _, err := rand.Read(raw); err != nil {
		return fmt.Errorf("failed to generate master secret: %w", err)
	}
	defer cryptoDomain.Zero(raw)

	secret := []byte(base64.StdEncoding.EncodeToString(raw))
	defer cryptoDomain.Zero(secret)

	if kmsKeyURI == "" {
		logger.Warn("printing a plain master secret, prefer --kms-key-uri outside development")

		_, _ = fmt.Fprintln(writer, "# Master secret configuration")
		_, _ = fmt.Fprintln(writer, "# Copy this environment variable to your .env file or secrets manager")
		_, _ = fmt.Fprintln(writer)
		_, _ = fmt.Fprintf(writer, "MASTER_SECRET=\"%s\"\n", secret)
		return nil
	}

	keeper, err := kmsService.OpenKeeper(ctx, kmsKeyURI)
	if err != nil {
		return fmt.Errorf("failed to open KMS keeper: %w", err)
	}
	defer func() {
		if closeErr := keeper.Close(); closeErr != nil {
			logger.Warn("failed to close KMS keeper", slog.Any("error", closeErr))
		}
	}()

	ciphertext, err := keeper.Encrypt(ctx, secret)
	if err != nil {
		return fmt.Errorf("failed to encrypt master secret with KMS: %w", err)
	}

	logger.Info("master secret encrypted with KMS", slog.String("kms_provider", kmsProvider))

	_, _ = fmt.Fprintln(writer, "# Master secret configuration (KMS mode)")
	_, _ = fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
	_, _ = fmt.Fprintln(writer)
	_, _ = fmt.Fprintf(writer, "KMS_PROVIDER=\"%s\"\n", kmsProvider)
	_, _ = fmt.Fprintf(writer, "KMS_KEY_URI=\"%s\"\n", kmsKeyURI)
	_, _ = fmt.Fprintf(writer, "MASTER_SECRET_CIPHERTEXT=\"%s\"\n", base64.StdEncoding.EncodeToString(ciphertext))

	return nil
}
