package commands

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/mysql"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/allisson/dmvault/internal/config"
)

// RunMigrations creates the blobs table for the SQL storage drivers. The file
// driver keeps one file per blob and needs no migration.
func RunMigrations(logger *slog.Logger, storageDriver, connectionString string) error {
	var migrationsPath string
	switch storageDriver {
	case config.StorageDriverPostgres:
		migrationsPath = "file://migrations/postgresql"
	case config.StorageDriverMySQL:
		migrationsPath = "file://migrations/mysql"
	case config.StorageDriverFile:
		logger.Info("file storage driver does not use migrations")
		return nil
	default:
		return fmt.Errorf("unsupported storage driver: %s", storageDriver)
	}

	logger.Info("running database migrations",
		slog.String("driver", storageDriver),
	)

	m, err := migrate.New(migrationsPath, connectionString)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer closeMigrate(m, logger)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	logger.Info("migrations completed successfully")
	return nil
}
