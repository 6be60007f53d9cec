// Package dto provides data transfer objects for the messaging HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/dmvault/internal/validation"
)

// MaxMessageLength caps the text of a single message, in runes.
const MaxMessageLength = 16384

// SendMessageRequest contains the parameters for sending a message.
// Text may be empty but must be present.
type SendMessageRequest struct {
	To   string  `json:"to"`
	Text *string `json:"text"`
}

// Validate checks if the send message request is valid.
func (r *SendMessageRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.To,
			validation.Required.Error("to is required"),
			customValidation.Login,
		),
		validation.Field(&r.Text,
			validation.NotNil.Error("text is required"),
			validation.RuneLength(0, MaxMessageLength),
		),
	)
	return customValidation.WrapValidationError(err)
}
