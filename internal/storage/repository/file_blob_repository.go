// Package repository implements blob persistence on the local filesystem,
// PostgreSQL and MySQL.
//
// Every implementation serializes Update calls within the process, so a
// read-modify-write of one store can never interleave with another write to the
// same backend.
package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	apperrors "github.com/allisson/dmvault/internal/errors"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// FileBlobRepository stores each blob as a file inside a data directory.
// Writes go to a temporary file that is synced and renamed over the target, so
// readers observe either the old or the new content, never a torn write.
type FileBlobRepository struct {
	dir string
	mu  sync.Mutex
}

// NewFileBlobRepository creates dir (0700) if needed.
func NewFileBlobRepository(dir string) (*FileBlobRepository, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "create data dir %s", dir)
	}
	return &FileBlobRepository{dir: dir}, nil
}

// Get returns the blob content or ErrBlobNotFound.
func (r *FileBlobRepository) Get(ctx context.Context, name string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path, err := r.path(name)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return readBlobFile(path)
}

// Update runs fn on the current content and atomically replaces the file with
// its result.
func (r *FileBlobRepository) Update(ctx context.Context, name string, fn storageDomain.UpdateFunc) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := r.path(name)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := readBlobFile(path)
	found := err == nil
	if err != nil && !errors.Is(err, storageDomain.ErrBlobNotFound) {
		return err
	}

	next, err := fn(current, found)
	if err != nil {
		if errors.Is(err, storageDomain.ErrSkipWrite) {
			return nil
		}
		return err
	}

	return r.writeAtomic(path, next)
}

func (r *FileBlobRepository) path(name string) (string, error) {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return "", fmt.Errorf("%w: %q", storageDomain.ErrInvalidBlobName, name)
	}
	return filepath.Join(r.dir, name), nil
}

func (r *FileBlobRepository) writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(r.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "create temp file")
	}
	tmpName := tmp.Name()

	cleanup := func(cause error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return apperrors.WithCause(storageDomain.ErrStorageUnavailable, cause, "write %s", path)
	}

	if err := tmp.Chmod(0o600); err != nil {
		return cleanup(err)
	}
	if _, err := tmp.Write(data); err != nil {
		return cleanup(err)
	}
	if err := tmp.Sync(); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "rename %s", path)
	}
	return nil
}

func readBlobFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, storageDomain.ErrBlobNotFound
		}
		return nil, apperrors.WithCause(storageDomain.ErrStorageUnavailable, err, "read %s", path)
	}
	return data, nil
}
