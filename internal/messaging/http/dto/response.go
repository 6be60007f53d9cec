package dto

import (
	"github.com/google/uuid"

	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
)

// MessageResponse represents a message in API responses. Timestamps are Unix
// milliseconds.
type MessageResponse struct {
	ID            uuid.UUID `json:"id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	Text          string    `json:"text"`
	Timestamp     int64     `json:"ts"`
	Undecryptable bool      `json:"undecryptable,omitempty"`
}

// MessageEnvelope wraps a single message.
type MessageEnvelope struct {
	Message MessageResponse `json:"message"`
}

// ListMessagesResponse wraps the messages of a conversation.
type ListMessagesResponse struct {
	Messages []MessageResponse `json:"messages"`
}

// ContactResponse is a conversation partner of the caller.
type ContactResponse struct {
	Login       string `json:"login"`
	DisplayName string `json:"displayName"`
	LastTs      int64  `json:"lastTs"`
}

// ListContactsResponse wraps the caller's contacts, most recent first.
type ListContactsResponse struct {
	Contacts []ContactResponse `json:"contacts"`
}

func mapMessage(msg *messagingDomain.Message) MessageResponse {
	return MessageResponse{
		ID:            msg.ID,
		From:          msg.From,
		To:            msg.To,
		Text:          msg.Text,
		Timestamp:     msg.CreatedAt.UnixMilli(),
		Undecryptable: msg.Undecryptable,
	}
}

// MapMessageToResponse converts a domain message to an API response.
func MapMessageToResponse(msg *messagingDomain.Message) MessageEnvelope {
	return MessageEnvelope{Message: mapMessage(msg)}
}

// MapMessagesToListResponse converts a conversation to an API response.
func MapMessagesToListResponse(messages []*messagingDomain.Message) ListMessagesResponse {
	resp := ListMessagesResponse{Messages: make([]MessageResponse, 0, len(messages))}
	for _, msg := range messages {
		resp.Messages = append(resp.Messages, mapMessage(msg))
	}
	return resp
}

// MapDialogsToContactsResponse converts dialog summaries to contacts. Display
// names come from displayNames; a counterpart without one (for example a
// deleted user) is shown by login.
func MapDialogsToContactsResponse(
	dialogs []messagingDomain.DialogSummary,
	displayNames map[string]string,
) ListContactsResponse {
	resp := ListContactsResponse{Contacts: make([]ContactResponse, 0, len(dialogs))}
	for _, d := range dialogs {
		name := displayNames[d.Counterpart]
		if name == "" {
			name = d.Counterpart
		}
		resp.Contacts = append(resp.Contacts, ContactResponse{
			Login:       d.Counterpart,
			DisplayName: name,
			LastTs:      d.LastMessageAt.UnixMilli(),
		})
	}
	return resp
}
