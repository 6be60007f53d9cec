package usecase

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// conversationKeys maps a conversation id to its base64-encoded key.
type conversationKeys map[string]string

// conversationKeyUseCase implements ConversationKeyUseCase on top of a sealed
// document holding the whole key mapping.
type conversationKeyUseCase struct {
	doc    *SealedDocument[conversationKeys]
	logger *slog.Logger
}

// NewConversationKeyUseCase creates a ConversationKeyUseCase persisting the key
// mapping under storageDomain.BlobConversationKeys.
func NewConversationKeyUseCase(
	repo BlobRepository,
	sealer cryptoService.BlobSealer,
	policy cryptoDomain.RecoveryPolicy,
	logger *slog.Logger,
) ConversationKeyUseCase {
	return &conversationKeyUseCase{
		doc: NewSealedDocument[conversationKeys](
			repo,
			storageDomain.BlobConversationKeys,
			sealer,
			policy,
			logger,
		),
		logger: logger,
	}
}

// GetOrCreateKey returns the key for conversationID.
//
// The mapping is read first; only a missing id triggers the locked
// read-modify-write, which checks again before generating so two concurrent
// first calls agree on one key.
func (c *conversationKeyUseCase) GetOrCreateKey(ctx context.Context, conversationID string) ([]byte, error) {
	if conversationID == "" {
		return nil, cryptoDomain.ErrEmptyConversationID
	}

	keys, err := c.doc.Load(ctx)
	if err != nil {
		return nil, err
	}
	if encoded, ok := keys[conversationID]; ok {
		return decodeConversationKey(encoded)
	}

	var key []byte
	err = c.doc.Update(ctx, func(keys conversationKeys) (conversationKeys, error) {
		if encoded, ok := keys[conversationID]; ok {
			decoded, err := decodeConversationKey(encoded)
			if err != nil {
				return nil, err
			}
			key = decoded
			return nil, storageDomain.ErrSkipWrite
		}

		key = make([]byte, cryptoDomain.KeySize)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("failed to generate conversation key: %w", err)
		}

		if keys == nil {
			keys = make(conversationKeys)
		}
		keys[conversationID] = base64.StdEncoding.EncodeToString(key)
		return keys, nil
	})
	if err != nil {
		cryptoDomain.Zero(key)
		return nil, err
	}

	c.logger.Debug("conversation key created", slog.String("conversation_id", conversationID))
	return key, nil
}

// Count returns the number of stored conversation keys.
func (c *conversationKeyUseCase) Count(ctx context.Context) (int, error) {
	keys, err := c.doc.Load(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func decodeConversationKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: conversation key is not base64: %v",
			cryptoDomain.ErrStoreUnreadable, cryptoDomain.ErrMalformedInput, err)
	}
	if len(key) != cryptoDomain.KeySize {
		return nil, fmt.Errorf("%w: %w: conversation key has %d bytes",
			cryptoDomain.ErrStoreUnreadable, cryptoDomain.ErrMalformedInput, len(key))
	}
	return key, nil
}
