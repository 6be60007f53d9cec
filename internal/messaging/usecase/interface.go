// Package usecase implements the message log: appending encrypted messages,
// reading a conversation back in clear and deriving per-user dialog lists.
package usecase

import (
	"context"

	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// BlobRepository defines the interface for named blob persistence.
type BlobRepository interface {
	Get(ctx context.Context, name string) ([]byte, error)
	Update(ctx context.Context, name string, fn storageDomain.UpdateFunc) error
}

// MessageUseCase defines the interface for message log operations.
type MessageUseCase interface {
	// Append encrypts text under the conversation key of (from, to) and adds it
	// to the end of that conversation. The returned message carries the
	// plaintext.
	Append(ctx context.Context, from, to, text string) (*messagingDomain.Message, error)

	// ReadConversation returns every message exchanged between a and b in
	// insertion order. The result is the same for (a, b) and (b, a).
	ReadConversation(ctx context.Context, a, b string) ([]*messagingDomain.Message, error)

	// DialogsFor lists the counterparts of login with the time of the latest
	// message, most recent first.
	DialogsFor(ctx context.Context, login string) ([]messagingDomain.DialogSummary, error)

	// Stats counts conversations and messages in the log.
	Stats(ctx context.Context) (messagingDomain.LogStats, error)
}
