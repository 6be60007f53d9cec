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

// PostgreSQLBlobRepository stores blobs in the blobs table of a PostgreSQL database.
// Update locks the row with SELECT ... FOR UPDATE inside a transaction.
type PostgreSQLBlobRepository struct {
	db        *sql.DB
	txManager database.TxManager
	mu        sync.Mutex
}

// NewPostgreSQLBlobRepository creates a new PostgreSQLBlobRepository.
func NewPostgreSQLBlobRepository(db *sql.DB, txManager database.TxManager) *PostgreSQLBlobRepository {
	return &PostgreSQLBlobRepository{db: db, txManager: txManager}
}

// Get returns the blob content or ErrBlobNotFound.
func (p *PostgreSQLBlobRepository) Get(ctx context.Context, name string) ([]byte, error) {
	querier := database.GetTx(ctx, p.db)

	var data []byte
	err := querier.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = $1`, name).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storageDomain.ErrBlobNotFound
		}
		return nil, apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "get blob %s", name)
	}
	return data, nil
}

// Update runs fn on the locked row content and upserts the result.
func (p *PostgreSQLBlobRepository) Update(ctx context.Context, name string, fn storageDomain.UpdateFunc) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var callbackErr error
	err := p.txManager.WithTx(ctx, func(ctx context.Context) error {
		querier := database.GetTx(ctx, p.db)

		var current []byte
		found := true
		err := querier.QueryRowContext(ctx, `SELECT data FROM blobs WHERE name = $1 FOR UPDATE`, name).
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

		query := `INSERT INTO blobs (name, data, updated_at) VALUES ($1, $2, $3)
			  ON CONFLICT (name) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`

		if _, err := querier.ExecContext(ctx, query, name, next, time.Now().UTC()); err != nil {
			return apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "write blob %s", name)
		}
		return nil
	})
	return finishUpdate(err, callbackErr)
}
