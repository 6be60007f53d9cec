package domain

import (
	"github.com/allisson/dmvault/internal/errors"
)

// Message-specific error definitions.
var (
	// ErrInvalidParticipant indicates a sender or recipient login that cannot
	// take part in a conversation.
	ErrInvalidParticipant = errors.Wrap(errors.ErrInvalidInput, "invalid participant")
)
