package domain

import (
	"fmt"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/dmvault/internal/validation"
)

// ValidateParticipants checks that both logins may form a conversation id.
func ValidateParticipants(a, b string) error {
	err := validation.Errors{
		"from": validation.Validate(a, validation.Required, customValidation.Login),
		"to":   validation.Validate(b, validation.Required, customValidation.Login),
	}.Filter()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParticipant, err)
	}
	return nil
}

// ValidateLogin checks a single login, such as the owner of a dialog list.
func ValidateLogin(login string) error {
	if err := validation.Validate(login, validation.Required, customValidation.Login); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParticipant, err)
	}
	return nil
}
