package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/dmvault/internal/crypto/usecase"
	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
)

// messageUseCase implements MessageUseCase over the messages.json blob.
type messageUseCase struct {
	repo        BlobRepository
	keys        cryptoUseCase.ConversationKeyUseCase
	aeadManager cryptoService.AEADManager
	policy      cryptoDomain.RecoveryPolicy
	logger      *slog.Logger
	now         func() time.Time
}

// NewMessageUseCase creates a MessageUseCase.
func NewMessageUseCase(
	repo BlobRepository,
	keys cryptoUseCase.ConversationKeyUseCase,
	aeadManager cryptoService.AEADManager,
	policy cryptoDomain.RecoveryPolicy,
	logger *slog.Logger,
) MessageUseCase {
	return &messageUseCase{
		repo:        repo,
		keys:        keys,
		aeadManager: aeadManager,
		policy:      policy,
		logger:      logger,
		now:         time.Now,
	}
}

// Append seals text and appends it to the conversation of (from, to).
//
// The conversation key is obtained before the message log is locked: both
// stores may share one backend and its writer lock.
func (m *messageUseCase) Append(
	ctx context.Context,
	from, to, text string,
) (*messagingDomain.Message, error) {
	if err := messagingDomain.ValidateParticipants(from, to); err != nil {
		return nil, err
	}

	cid := messagingDomain.ConversationID(from, to)
	cipher, err := m.conversationCipher(ctx, cid)
	if err != nil {
		return nil, err
	}

	plaintext := []byte(text)
	defer cryptoDomain.Zero(plaintext)

	iv, tag, ciphertext, err := cipher.Seal(plaintext)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt message: %w", err)
	}

	stored := messagingDomain.StoredMessage{
		ID:   uuid.Must(uuid.NewV7()),
		From: from,
		To:   to,
		Encrypted: cryptoDomain.SealedPayload{
			IV:   iv,
			Tag:  tag,
			Data: ciphertext,
		},
		Timestamp: m.now().UnixMilli(),
	}

	err = m.repo.Update(ctx, storageDomain.BlobMessages, func(current []byte, found bool) ([]byte, error) {
		log := messagingDomain.MessageLog{}
		if found {
			var err error
			if log, err = m.decodeLog(current); err != nil {
				return nil, err
			}
		}

		log[cid] = append(log[cid], stored)

		data, err := json.Marshal(log)
		if err != nil {
			return nil, fmt.Errorf("failed to encode message log: %w", err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return &messagingDomain.Message{
		ID:        stored.ID,
		From:      from,
		To:        to,
		Text:      text,
		CreatedAt: stored.CreatedAt(),
	}, nil
}

// ReadConversation decrypts the conversation between a and b.
//
// An entry that cannot be decoded or fails authentication does not abort the
// read. It is returned with Undecryptable set and empty Text, and logged at
// warn level.
func (m *messageUseCase) ReadConversation(
	ctx context.Context,
	a, b string,
) ([]*messagingDomain.Message, error) {
	if err := messagingDomain.ValidateParticipants(a, b); err != nil {
		return nil, err
	}

	log, err := m.loadLog(ctx)
	if err != nil {
		return nil, err
	}

	cid := messagingDomain.ConversationID(a, b)
	stored := log[cid]
	messages := make([]*messagingDomain.Message, 0, len(stored))
	if len(stored) == 0 {
		return messages, nil
	}

	cipher, err := m.conversationCipher(ctx, cid)
	if err != nil {
		return nil, err
	}

	for _, s := range stored {
		msg := &messagingDomain.Message{
			ID:        s.ID,
			From:      s.From,
			To:        s.To,
			CreatedAt: s.CreatedAt(),
		}

		err := s.DecodeError()
		var plaintext []byte
		if err == nil {
			plaintext, err = cipher.Open(s.Encrypted.IV, s.Encrypted.Tag, s.Encrypted.Data)
		}
		if err != nil {
			m.logger.Warn("message could not be decrypted",
				slog.String("conversation_id", cid),
				slog.String("message_id", s.ID.String()),
				slog.Any("error", err),
			)
			msg.Undecryptable = true
		} else {
			msg.Text = string(plaintext)
			cryptoDomain.Zero(plaintext)
		}

		messages = append(messages, msg)
	}

	return messages, nil
}

// DialogsFor derives the dialog list of login from the message log.
func (m *messageUseCase) DialogsFor(ctx context.Context, login string) ([]messagingDomain.DialogSummary, error) {
	if err := messagingDomain.ValidateLogin(login); err != nil {
		return nil, err
	}

	log, err := m.loadLog(ctx)
	if err != nil {
		return nil, err
	}

	latest := make(map[string]int64)
	for cid, stored := range log {
		if len(stored) == 0 {
			continue
		}
		other, ok := messagingDomain.Counterpart(cid, login)
		if !ok {
			continue
		}

		var maxTS int64
		for i, s := range stored {
			if i == 0 || s.Timestamp > maxTS {
				maxTS = s.Timestamp
			}
		}
		if ts, seen := latest[other]; !seen || maxTS > ts {
			latest[other] = maxTS
		}
	}

	dialogs := make([]messagingDomain.DialogSummary, 0, len(latest))
	for other, ts := range latest {
		dialogs = append(dialogs, messagingDomain.DialogSummary{
			Counterpart:   other,
			LastMessageAt: time.UnixMilli(ts).UTC(),
		})
	}

	sort.Slice(dialogs, func(i, j int) bool {
		if !dialogs[i].LastMessageAt.Equal(dialogs[j].LastMessageAt) {
			return dialogs[i].LastMessageAt.After(dialogs[j].LastMessageAt)
		}
		return dialogs[i].Counterpart < dialogs[j].Counterpart
	})

	return dialogs, nil
}

// Stats counts conversations and messages in the log.
func (m *messageUseCase) Stats(ctx context.Context) (messagingDomain.LogStats, error) {
	var stats messagingDomain.LogStats

	log, err := m.loadLog(ctx)
	if err != nil {
		return stats, err
	}

	for _, stored := range log {
		if len(stored) == 0 {
			continue
		}
		stats.Conversations++
		stats.Messages += len(stored)
	}
	return stats, nil
}

func (m *messageUseCase) conversationCipher(ctx context.Context, cid string) (cryptoService.AEAD, error) {
	key, err := m.keys.GetOrCreateKey(ctx, cid)
	if err != nil {
		return nil, err
	}
	defer cryptoDomain.Zero(key)

	cipher, err := m.aeadManager.CreateCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation cipher: %w", err)
	}
	return cipher, nil
}

func (m *messageUseCase) loadLog(ctx context.Context) (messagingDomain.MessageLog, error) {
	data, err := m.repo.Get(ctx, storageDomain.BlobMessages)
	if err != nil {
		if errors.Is(err, storageDomain.ErrBlobNotFound) {
			return messagingDomain.MessageLog{}, nil
		}
		return nil, err
	}
	return m.decodeLog(data)
}

func (m *messageUseCase) decodeLog(data []byte) (messagingDomain.MessageLog, error) {
	log := messagingDomain.MessageLog{}
	err := json.Unmarshal(data, &log)
	if err == nil {
		if log == nil {
			log = messagingDomain.MessageLog{}
		}
		return log, nil
	}

	if m.policy != cryptoDomain.RecoveryReset {
		return nil, fmt.Errorf("%w: failed to decode %s: %w: %v",
			cryptoDomain.ErrStoreUnreadable, storageDomain.BlobMessages, cryptoDomain.ErrMalformedInput, err)
	}

	m.logger.Warn("message log unreadable, treating as empty",
		slog.String("blob", storageDomain.BlobMessages),
		slog.Any("error", err),
	)
	return messagingDomain.MessageLog{}, nil
}
