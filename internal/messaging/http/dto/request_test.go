package dto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/allisson/dmvault/internal/errors"
)

func TestSendMessageRequest_Validate(t *testing.T) {
	text := func(s string) *string { return &s }

	tests := []struct {
		name    string
		req     SendMessageRequest
		wantErr bool
	}{
		{name: "valid", req: SendMessageRequest{To: "bob", Text: text("hi")}},
		{name: "empty text allowed", req: SendMessageRequest{To: "bob", Text: text("")}},
		{name: "missing text", req: SendMessageRequest{To: "bob"}, wantErr: true},
		{name: "missing recipient", req: SendMessageRequest{Text: text("hi")}, wantErr: true},
		{name: "recipient with colon", req: SendMessageRequest{To: "b:ob", Text: text("hi")}, wantErr: true},
		{
			name:    "text too long",
			req:     SendMessageRequest{To: "bob", Text: text(strings.Repeat("é", MaxMessageLength+1))},
			wantErr: true,
		},
		{
			name: "text at limit",
			req:  SendMessageRequest{To: "bob", Text: text(strings.Repeat("é", MaxMessageLength))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrInvalidInput))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
