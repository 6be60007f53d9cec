package repository

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"github.com/allisson/dmvault/internal/database"
	apperrors "github.com/allisson/dmvault/internal/errors"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// MySQLBlobRepository stores blobs in the blobs table of a MySQL database.
type MySQLBlobRepository struct {
	db        *sql.DB
	txManager database.TxManager
	mu        sync.Mutex
}

// NewMySQLBlobRepository creates a new MySQLBlobRepository.
func NewMySQLBlobRepository(db *sql.DB, txManager database.TxManager) *MySQLBlobRepository {
	return &MySQLBlobRepository{db: db, txManager: txManager}
}

// Get returns the blob content or ErrBlobNotFound.
func (m *MySQLBlobRepository) Get(ctx context.Context, name string) ([]byte, error) {
	querier := database.GetTx(ctx, m.db)

	var data []byte
	err := querier.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = ?`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storageDomain.ErrBlobNotFound
		}
		return nil, apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "get blob %s", name)
	}
	return data, nil
}

// Update runs fn on the locked row content and upserts the result.
func (m *MySQLBlobRepository) Update(ctx context.Context, name string, fn storageDomain.UpdateFunc) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var callbackErr error
	err := m.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, m.db)

		var current []byte
		found := true
		err := querier.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = ? FOR UPDATE`, name).
			Scan(&current)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				return apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "lock blob %s", name)
			}
			found = false
		}

		next, err := fn(current, found)
		if err != nil {
			callbackErr = err
			return err
		}

		query := `INSERT INTO blobs (name, data, updated_at) VALUES (?, ?, ?)
			  ON DUPLICATE KEY UPDATE data = VALUES(data), updated_at = VALUES(updated_at)`

		if _, err := querier.ExecContext(ctx, query, name, next, time.Now().UTC()); err != nil {
			return apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "write blob %s", name)
		}
		return nil
	})
	return finishUpdate(err, callbackErr)
}
