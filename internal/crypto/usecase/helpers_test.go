package usecase

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	storageRepository "github.com/allisson/dmvault/internal/storage/repository"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSealer(t *testing.T, secret string) *cryptoService.MasterSealer {
	t.Helper()

	masterSecret, err := cryptoDomain.NewMasterSecret([]byte(secret))
	require.NoError(t, err)
	t.Cleanup(masterSecret.Close)

	return cryptoService.NewMasterSealer(
		masterSecret,
		cryptoService.NewPBKDF2KeyDeriver(),
		cryptoService.NewAEADManager(),
	)
}

func newTestRepository(t *testing.T) *storageRepository.FileBlobRepository {
	t.Helper()

	repo, err := storageRepository.NewFileBlobRepository(t.TempDir())
	require.NoError(t, err)
	return repo
}
