package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/dmvault/internal/database"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func TestPostgreSQLBlobRepository_Get(t *testing.T) {
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT data FROM blobs WHERE name = $1`)

	t.Run("found", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectQuery(query).
			WithArgs(storageDomain.BlobUsers).
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte("sealed")))

		data, err := repo.Get(ctx, storageDomain.BlobUsers)
		require.NoError(t, err)
		assert.Equal(t, "sealed", string(data))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectQuery(query).WithArgs(storageDomain.BlobUsers).WillReturnError(sql.ErrNoRows)

		_, err := repo.Get(ctx, storageDomain.BlobUsers)
		assert.ErrorIs(t, err, storageDomain.ErrBlobNotFound)
	})

	t.Run("database error", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectQuery(query).WithArgs(storageDomain.BlobUsers).WillReturnError(assert.AnError)

		_, err := repo.Get(ctx, storageDomain.BlobUsers)
		assert.ErrorIs(t, err, storageDomain.ErrStorageUnavailable)
	})
}

func TestPostgreSQLBlobRepository_Update(t *testing.T) {
	ctx := context.Background()
	lockQuery := regexp.QuoteMeta(`SELECT data FROM blobs WHERE name = $1 FOR UPDATE`)
	upsertQuery := regexp.QuoteMeta(`INSERT INTO blobs (name, data, updated_at) VALUES ($1, $2, $3)`)

	t.Run("insert when absent", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(storageDomain.BlobMessages).WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(upsertQuery).
			WithArgs(storageDomain.BlobMessages, []byte("{}"), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Update(ctx, storageDomain.BlobMessages, func(current []byte, found bool) ([]byte, error) {
			assert.False(t, found)
			return []byte("{}"), nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("update when present", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).
			WithArgs(storageDomain.BlobMessages).
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte("old")))
		mock.ExpectExec(upsertQuery).
			WithArgs(storageDomain.BlobMessages, []byte("old+new"), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := repo.Update(ctx, storageDomain.BlobMessages, func(current []byte, found bool) ([]byte, error) {
			assert.True(t, found)
			return append(current, []byte("+new")...), nil
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("callback error rolls back and passes through", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(storageDomain.BlobUsers).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Update(ctx, storageDomain.BlobUsers, func([]byte, bool) ([]byte, error) {
			return nil, assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NotErrorIs(t, err, storageDomain.ErrStorageUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("skip write rolls back without error", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(storageDomain.BlobUsers).WillReturnError(sql.ErrNoRows)
		mock.ExpectRollback()

		err := repo.Update(ctx, storageDomain.BlobUsers, func([]byte, bool) ([]byte, error) {
			return nil, storageDomain.ErrSkipWrite
		})
		assert.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("begin failure is storage unavailable", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectBegin().WillReturnError(assert.AnError)

		err := repo.Update(ctx, storageDomain.BlobUsers, func([]byte, bool) ([]byte, error) {
			return []byte("x"), nil
		})
		assert.ErrorIs(t, err, storageDomain.ErrStorageUnavailable)
	})

	t.Run("write failure is storage unavailable", func(t *testing.T) {
		db, mock := newSQLMock(t)
		repo := NewPostgreSQLBlobRepository(db, database.NewTxManager(db))

		mock.ExpectBegin()
		mock.ExpectQuery(lockQuery).WithArgs(storageDomain.BlobUsers).WillReturnError(sql.ErrNoRows)
		mock.ExpectExec(upsertQuery).WillReturnError(assert.AnError)
		mock.ExpectRollback()

		err := repo.Update(ctx, storageDomain.BlobUsers, func([]byte, bool) ([]byte, error) {
			return []byte("x"), nil
		})
		assert.ErrorIs(t, err, storageDomain.ErrStorageUnavailable)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
