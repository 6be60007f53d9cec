package usecase

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
	cryptoService "github.com/allisson/dmvault/internal/crypto/service"
	cryptoUseCase "github.com/allisson/dmvault/internal/crypto/usecase"
	apperrors "github.com/allisson/dmvault/internal/errors"
	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
	storageDomain "github.com/allisson/dmvault/internal/storage/domain"
	storageRepository "github.com/allisson/dmvault/internal/storage/repository"
)

type testEnv struct {
	repo    *storageRepository.FileBlobRepository
	useCase *messageUseCase
}

func newTestEnv(t *testing.T, policy cryptoDomain.RecoveryPolicy) *testEnv {
	t.Helper()

	repo, err := storageRepository.NewFileBlobRepository(t.TempDir())
	require.NoError(t, err)

	masterSecret, err := cryptoDomain.NewMasterSecret([]byte("test-master-secret"))
	require.NoError(t, err)
	t.Cleanup(masterSecret.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sealer := cryptoService.NewMasterSealer(
		masterSecret,
		cryptoService.NewPBKDF2KeyDeriver(),
		cryptoService.NewAEADManager(),
	)
	keys := cryptoUseCase.NewConversationKeyUseCase(repo, sealer, policy, logger)

	useCase := NewMessageUseCase(repo, keys, cryptoService.NewAEADManager(), policy, logger).(*messageUseCase)
	return &testEnv{repo: repo, useCase: useCase}
}

func (e *testEnv) writeLog(t *testing.T, log messagingDomain.MessageLog) {
	t.Helper()

	data, err := json.Marshal(log)
	require.NoError(t, err)
	require.NoError(t, e.repo.Update(context.Background(), storageDomain.BlobMessages,
		func([]byte, bool) ([]byte, error) { return data, nil }))
}

func (e *testEnv) readLog(t *testing.T) messagingDomain.MessageLog {
	t.Helper()

	data, err := e.repo.Get(context.Background(), storageDomain.BlobMessages)
	require.NoError(t, err)

	var log messagingDomain.MessageLog
	require.NoError(t, json.Unmarshal(data, &log))
	return log
}

// setEntryField overwrites one field of a stored entry with a raw JSON value,
// bypassing StoredMessage so the result can be any bytes.
func (e *testEnv) setEntryField(t *testing.T, cid string, index int, path []string, value string) {
	t.Helper()

	ctx := context.Background()
	data, err := e.repo.Get(ctx, storageDomain.BlobMessages)
	require.NoError(t, err)

	var log map[string][]map[string]any
	require.NoError(t, json.Unmarshal(data, &log))

	target := log[cid][index]
	for _, key := range path[:len(path)-1] {
		target = target[key].(map[string]any)
	}
	target[path[len(path)-1]] = json.RawMessage(value)

	data, err = json.Marshal(log)
	require.NoError(t, err)
	require.NoError(t, e.repo.Update(ctx, storageDomain.BlobMessages,
		func([]byte, bool) ([]byte, error) { return data, nil }))
}

func TestMessageUseCase_Append(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_AppendThenReadBothDirections", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		msg, err := env.useCase.Append(ctx, "a", "b", "hello")
		require.NoError(t, err)
		assert.Equal(t, "a", msg.From)
		assert.Equal(t, "b", msg.To)
		assert.Equal(t, "hello", msg.Text)
		assert.NotEqual(t, uuid.Nil, msg.ID)

		forward, err := env.useCase.ReadConversation(ctx, "a", "b")
		require.NoError(t, err)
		require.Len(t, forward, 1)
		assert.Equal(t, "hello", forward[0].Text)
		assert.Equal(t, "a", forward[0].From)
		assert.Equal(t, "b", forward[0].To)
		assert.Equal(t, msg.ID, forward[0].ID)
		assert.False(t, forward[0].Undecryptable)

		backward, err := env.useCase.ReadConversation(ctx, "b", "a")
		require.NoError(t, err)
		assert.Equal(t, forward, backward)
	})

	t.Run("Success_PreservesInsertionOrder", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		for _, text := range []string{"one", "two", "three"} {
			_, err := env.useCase.Append(ctx, "alice", "bob", text)
			require.NoError(t, err)
		}
		_, err := env.useCase.Append(ctx, "bob", "alice", "four")
		require.NoError(t, err)

		messages, err := env.useCase.ReadConversation(ctx, "bob", "alice")
		require.NoError(t, err)
		require.Len(t, messages, 4)

		texts := make([]string, 0, len(messages))
		for _, m := range messages {
			texts = append(texts, m.Text)
		}
		assert.Equal(t, []string{"one", "two", "three", "four"}, texts)
		assert.Equal(t, "bob", messages[3].From)
	})

	t.Run("Success_StoredLogHidesPlaintext", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.Append(ctx, "alice", "bob", "top secret words")
		require.NoError(t, err)

		raw, err := env.repo.Get(ctx, storageDomain.BlobMessages)
		require.NoError(t, err)
		assert.NotContains(t, string(raw), "top secret words")

		log := env.readLog(t)
		require.Len(t, log["alice::bob"], 1)
		stored := log["alice::bob"][0]
		assert.Len(t, stored.Encrypted.IV, cryptoDomain.NonceSize)
		assert.Len(t, stored.Encrypted.Tag, cryptoDomain.TagSize)
		assert.Len(t, stored.Encrypted.Data, len("top secret words"))
	})

	t.Run("Success_TimestampHasMillisecondPrecision", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)
		fixed := time.Date(2024, 5, 1, 12, 0, 0, 123456789, time.UTC)
		env.useCase.now = func() time.Time { return fixed }

		msg, err := env.useCase.Append(ctx, "alice", "bob", "hi")
		require.NoError(t, err)
		assert.True(t, fixed.Truncate(time.Millisecond).Equal(msg.CreatedAt))
		assert.Equal(t, fixed.UnixMilli(), env.readLog(t)["alice::bob"][0].Timestamp)
	})

	t.Run("Success_ConversationsUseDistinctKeys", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.Append(ctx, "alice", "bob", "x")
		require.NoError(t, err)
		_, err = env.useCase.Append(ctx, "alice", "carol", "y")
		require.NoError(t, err)

		count, err := env.useCase.keys.Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("Error_InvalidParticipant", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.Append(ctx, "ali:ce", "bob", "hi")
		assert.ErrorIs(t, err, messagingDomain.ErrInvalidParticipant)

		_, err = env.useCase.Append(ctx, "alice", "", "hi")
		assert.ErrorIs(t, err, messagingDomain.ErrInvalidParticipant)
	})
}

func TestMessageUseCase_ReadConversation(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_EmptyConversation", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		messages, err := env.useCase.ReadConversation(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.Empty(t, messages)

		// Reading an empty conversation does not mint a key.
		count, err := env.useCase.keys.Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("Success_TamperedEntryIsFlagged", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.Append(ctx, "alice", "bob", "first")
		require.NoError(t, err)
		_, err = env.useCase.Append(ctx, "alice", "bob", "second")
		require.NoError(t, err)

		log := env.readLog(t)
		log["alice::bob"][0].Encrypted.Tag[0] ^= 0xff
		env.writeLog(t, log)

		messages, err := env.useCase.ReadConversation(ctx, "alice", "bob")
		require.NoError(t, err)
		require.Len(t, messages, 2)

		assert.True(t, messages[0].Undecryptable)
		assert.Empty(t, messages[0].Text)
		assert.False(t, messages[1].Undecryptable)
		assert.Equal(t, "second", messages[1].Text)
	})

	t.Run("Success_TruncatedIVIsFlagged", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.Append(ctx, "alice", "bob", "first")
		require.NoError(t, err)

		log := env.readLog(t)
		log["alice::bob"][0].Encrypted.IV = log["alice::bob"][0].Encrypted.IV[:4]
		env.writeLog(t, log)

		messages, err := env.useCase.ReadConversation(ctx, "alice", "bob")
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.True(t, messages[0].Undecryptable)
	})

	for _, policy := range []cryptoDomain.RecoveryPolicy{cryptoDomain.RecoveryFail, cryptoDomain.RecoveryReset} {
		t.Run("Success_InvalidBase64EntryIsIsolated_"+string(policy), func(t *testing.T) {
			env := newTestEnv(t, policy)

			_, err := env.useCase.Append(ctx, "alice", "bob", "hello")
			require.NoError(t, err)
			_, err = env.useCase.Append(ctx, "carol", "dave", "broken")
			require.NoError(t, err)
			_, err = env.useCase.Append(ctx, "dave", "carol", "intact")
			require.NoError(t, err)

			env.setEntryField(t, "carol::dave", 0, []string{"encrypted", "iv"}, `"!!!"`)

			messages, err := env.useCase.ReadConversation(ctx, "alice", "bob")
			require.NoError(t, err)
			require.Len(t, messages, 1)
			assert.Equal(t, "hello", messages[0].Text)

			messages, err = env.useCase.ReadConversation(ctx, "carol", "dave")
			require.NoError(t, err)
			require.Len(t, messages, 2)
			assert.True(t, messages[0].Undecryptable)
			assert.Empty(t, messages[0].Text)
			assert.Equal(t, "carol", messages[0].From)
			assert.False(t, messages[1].Undecryptable)
			assert.Equal(t, "intact", messages[1].Text)

			_, err = env.useCase.Append(ctx, "eve", "frank", "new")
			require.NoError(t, err)

			raw, err := env.repo.Get(ctx, storageDomain.BlobMessages)
			require.NoError(t, err)
			assert.Contains(t, string(raw), `"iv":"!!!"`)

			stats, err := env.useCase.Stats(ctx)
			require.NoError(t, err)
			assert.Equal(t, messagingDomain.LogStats{Conversations: 3, Messages: 4}, stats)

			messages, err = env.useCase.ReadConversation(ctx, "bob", "alice")
			require.NoError(t, err)
			require.Len(t, messages, 1)
			assert.Equal(t, "hello", messages[0].Text)

			dialogs, err := env.useCase.DialogsFor(ctx, "dave")
			require.NoError(t, err)
			require.Len(t, dialogs, 1)
			assert.Equal(t, "carol", dialogs[0].Counterpart)
		})
	}

	t.Run("Success_WrongTypedEntryIsFlagged", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.Append(ctx, "alice", "bob", "first")
		require.NoError(t, err)
		_, err = env.useCase.Append(ctx, "alice", "bob", "second")
		require.NoError(t, err)

		env.setEntryField(t, "alice::bob", 1, []string{"ts"}, `"yesterday"`)

		messages, err := env.useCase.ReadConversation(ctx, "alice", "bob")
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "first", messages[0].Text)
		assert.True(t, messages[1].Undecryptable)
		assert.NotEqual(t, uuid.Nil, messages[1].ID)
	})

	t.Run("Error_CorruptLogFailPolicy", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)
		require.NoError(t, env.repo.Update(ctx, storageDomain.BlobMessages,
			func([]byte, bool) ([]byte, error) { return []byte("{not json"), nil }))

		_, err := env.useCase.ReadConversation(ctx, "alice", "bob")
		assert.ErrorIs(t, err, cryptoDomain.ErrMalformedInput)
		assert.ErrorIs(t, err, cryptoDomain.ErrStoreUnreadable)
		assert.ErrorIs(t, err, apperrors.ErrCorrupted)

		_, err = env.useCase.Append(ctx, "alice", "bob", "hi")
		assert.ErrorIs(t, err, cryptoDomain.ErrStoreUnreadable)

		raw, err := env.repo.Get(ctx, storageDomain.BlobMessages)
		require.NoError(t, err)
		assert.Equal(t, "{not json", string(raw))
	})

	t.Run("Success_CorruptLogResetPolicy", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryReset)
		require.NoError(t, env.repo.Update(ctx, storageDomain.BlobMessages,
			func([]byte, bool) ([]byte, error) { return []byte("{not json"), nil }))

		messages, err := env.useCase.ReadConversation(ctx, "alice", "bob")
		require.NoError(t, err)
		assert.Empty(t, messages)

		_, err = env.useCase.Append(ctx, "alice", "bob", "hi")
		require.NoError(t, err)

		messages, err = env.useCase.ReadConversation(ctx, "alice", "bob")
		require.NoError(t, err)
		require.Len(t, messages, 1)
		assert.Equal(t, "hi", messages[0].Text)
	})
}

func TestMessageUseCase_DialogsFor(t *testing.T) {
	ctx := context.Background()

	stored := func(from, to string, ts int64) messagingDomain.StoredMessage {
		return messagingDomain.StoredMessage{
			ID:        uuid.Must(uuid.NewV7()),
			From:      from,
			To:        to,
			Timestamp: ts,
		}
	}

	t.Run("Success_EmptyLog", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		dialogs, err := env.useCase.DialogsFor(ctx, "me")
		require.NoError(t, err)
		assert.Empty(t, dialogs)
	})

	t.Run("Success_SortedByLatestMessageDescending", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)
		env.writeLog(t, messagingDomain.MessageLog{
			messagingDomain.ConversationID("me", "x"): {stored("me", "x", 50), stored("x", "me", 100)},
			messagingDomain.ConversationID("me", "y"): {stored("y", "me", 300)},
			messagingDomain.ConversationID("me", "z"): {stored("me", "z", 200), stored("z", "me", 150)},
			messagingDomain.ConversationID("x", "y"):  {stored("x", "y", 999)},
			messagingDomain.ConversationID("me", "w"): {},
		})

		dialogs, err := env.useCase.DialogsFor(ctx, "me")
		require.NoError(t, err)
		require.Len(t, dialogs, 3)

		assert.Equal(t, "y", dialogs[0].Counterpart)
		assert.Equal(t, time.UnixMilli(300).UTC(), dialogs[0].LastMessageAt)
		assert.Equal(t, "z", dialogs[1].Counterpart)
		assert.Equal(t, time.UnixMilli(200).UTC(), dialogs[1].LastMessageAt)
		assert.Equal(t, "x", dialogs[2].Counterpart)
		assert.Equal(t, time.UnixMilli(100).UTC(), dialogs[2].LastMessageAt)
	})

	t.Run("Success_TiesBrokenByCounterpart", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)
		env.writeLog(t, messagingDomain.MessageLog{
			messagingDomain.ConversationID("me", "carol"): {stored("me", "carol", 10)},
			messagingDomain.ConversationID("me", "bob"):   {stored("me", "bob", 10)},
		})

		dialogs, err := env.useCase.DialogsFor(ctx, "me")
		require.NoError(t, err)
		require.Len(t, dialogs, 2)
		assert.Equal(t, "bob", dialogs[0].Counterpart)
		assert.Equal(t, "carol", dialogs[1].Counterpart)
	})

	t.Run("Success_FromAppendedMessages", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)
		clock := time.UnixMilli(1000)
		env.useCase.now = func() time.Time {
			clock = clock.Add(time.Second)
			return clock
		}

		_, err := env.useCase.Append(ctx, "alice", "bob", "1")
		require.NoError(t, err)
		_, err = env.useCase.Append(ctx, "carol", "alice", "2")
		require.NoError(t, err)

		dialogs, err := env.useCase.DialogsFor(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, dialogs, 2)
		assert.Equal(t, "carol", dialogs[0].Counterpart)
		assert.Equal(t, "bob", dialogs[1].Counterpart)

		dialogs, err = env.useCase.DialogsFor(ctx, "bob")
		require.NoError(t, err)
		require.Len(t, dialogs, 1)
		assert.Equal(t, "alice", dialogs[0].Counterpart)
	})

	t.Run("Error_InvalidLogin", func(t *testing.T) {
		env := newTestEnv(t, cryptoDomain.RecoveryFail)

		_, err := env.useCase.DialogsFor(ctx, "")
		assert.ErrorIs(t, err, messagingDomain.ErrInvalidParticipant)

		_, err = env.useCase.DialogsFor(ctx, "ali:ce")
		assert.ErrorIs(t, err, messagingDomain.ErrInvalidParticipant)
		assert.NotContains(t, err.Error(), "from:")
		assert.NotContains(t, err.Error(), "to:")
	})
}

func TestMessageUseCase_Stats(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t, cryptoDomain.RecoveryFail)

	_, err := env.useCase.Append(ctx, "alice", "bob", "1")
	require.NoError(t, err)
	_, err = env.useCase.Append(ctx, "bob", "alice", "2")
	require.NoError(t, err)
	_, err = env.useCase.Append(ctx, "alice", "carol", "3")
	require.NoError(t, err)

	stats, err := env.useCase.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, messagingDomain.LogStats{Conversations: 2, Messages: 3}, stats)
}
