// Package usecase implements key management on top of the crypto services: the
// per-conversation key store and the sealed JSON documents that every
// master-secret-protected store is built on.
package usecase

import (
	"context"

	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// BlobRepository defines the interface for named blob persistence.
type BlobRepository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Update(ctx context.Context, name string, fn storageDomain.UpdateFunc) error
}

// ConversationKeyUseCase manages the random symmetric key of every conversation.
type ConversationKeyUseCase interface {
	// GetOrCreateKey returns the 32-byte key of conversationID, generating and
	// persisting it on first use. Repeated calls return the same key.
	//
	// Security Note: callers MUST zero the returned key after use.
	GetOrCreateKey(ctx context.Context, conversationID string) ([]byte, error)

	// Count returns the number of stored conversation keys.
	Count(ctx context.Context) (int, error)
}
