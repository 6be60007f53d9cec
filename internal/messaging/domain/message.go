// Package domain defines the message log model: conversations between two
// logins, the messages appended to them and the dialog summaries derived from
// the log.
package domain

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	cryptoDomain "github.com/allisson/dmvault/internal/crypto/domain"
)

// ConversationSeparator joins the two participant logins of a conversation id.
// Logins may not contain ':' so the separator cannot be forged by a login.
const ConversationSeparator = "::"

// Message is a decrypted message as returned to callers.
type Message struct {
	// ID is a UUIDv7 assigned when the message is appended.
	ID uuid.UUID
	// From is the sender login.
	From string
	// To is the recipient login.
	To string
	// Text holds the plaintext. It is empty when Undecryptable is set.
	Text string
	// Undecryptable marks a stored entry that could not be decoded or whose
	// payload failed authentication.
	Undecryptable bool
	// CreatedAt is the append time with millisecond precision.
	CreatedAt time.Time
}

// DialogSummary describes one conversation from the point of view of a user.
type DialogSummary struct {
	// Counterpart is the other participant's login.
	Counterpart string
	// LastMessageAt is the latest timestamp in the conversation.
	LastMessageAt time.Time
}

// StoredMessage is the persisted form of a message. Only Encrypted is secret.
//
// Decoding never fails on a single entry: an entry that does not match the
// layout keeps its original bytes, is re-encoded unchanged and reports the
// failure through DecodeError.
type StoredMessage struct {
	ID        uuid.UUID                  `json:"id"`
	From      string                     `json:"from"`
	To        string                     `json:"to"`
	Encrypted cryptoDomain.SealedPayload `json:"encrypted"`
	Timestamp int64                      `json:"ts"`

	raw       json.RawMessage
	decodeErr error
}

// storedMessageJSON has the layout of StoredMessage without its methods.
type storedMessageJSON StoredMessage

// CreatedAt converts the Unix millisecond timestamp to a UTC time.
func (m StoredMessage) CreatedAt() time.Time {
	return time.UnixMilli(m.Timestamp).UTC()
}

// DecodeError returns the error met while decoding this entry, or nil.
func (m StoredMessage) DecodeError() error {
	return m.decodeErr
}

// UnmarshalJSON decodes one log entry. When the entry is invalid, the fields
// that still parse are kept for dialog listing and the rest stay zero.
func (m *StoredMessage) UnmarshalJSON(data []byte) error {
	var entry storedMessageJSON
	err := json.Unmarshal(data, &entry)
	if err == nil {
		*m = StoredMessage(entry)
		return nil
	}

	*m = StoredMessage{}
	var fields map[string]json.RawMessage
	if json.Unmarshal(data, &fields) == nil {
		_ = json.Unmarshal(fields["id"], &m.ID)
		_ = json.Unmarshal(fields["from"], &m.From)
		_ = json.Unmarshal(fields["to"], &m.To)
		_ = json.Unmarshal(fields["ts"], &m.Timestamp)
	}
	m.raw = append(json.RawMessage(nil), data...)
	m.decodeErr = fmt.Errorf("%w: %v", cryptoDomain.ErrMalformedInput, err)
	return nil
}

// MarshalJSON writes an entry that failed to decode back as it was read.
func (m StoredMessage) MarshalJSON() ([]byte, error) {
	if m.raw != nil {
		return m.raw, nil
	}
	return json.Marshal(storedMessageJSON(m))
}

// MessageLog maps a conversation id to its messages in insertion order.
type MessageLog map[string][]StoredMessage

// ConversationID returns the order-independent id of the conversation between
// a and b: the two logins sorted and joined with ConversationSeparator.
func ConversationID(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + ConversationSeparator + pair[1]
}

// Participants splits a conversation id into its two logins.
func Participants(conversationID string) (string, string, bool) {
	return strings.Cut(conversationID, ConversationSeparator)
}

// Counterpart returns the participant of conversationID that is not login.
// ok is false when login does not take part in the conversation.
func Counterpart(conversationID, login string) (string, bool) {
	a, b, found := Participants(conversationID)
	if !found {
		return "", false
	}
	switch login {
	case a:
		return b, true
	case b:
		return a, true
	}
	return "", false
}

// LogStats summarizes the message log.
type LogStats struct {
	Conversations int
	Messages      int
}
