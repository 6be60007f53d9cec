// Package validation holds the jellydator/validation rules shared by the user
// and messaging packages.
package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/dmvault/internal/errors"
)

// loginPattern excludes ':' so no login can produce the "::" conversation separator.
var loginPattern = regexp.MustCompile(`^[A-Za-z0-9._@+\-]{1,64}$`)

// WrapValidationError turns a validation failure into ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// PasswordLength bounds a password by its length in characters. Nil pointers
// and empty strings pass; combine with validation.Required where a password
// is mandatory.
type PasswordLength struct {
	Min int
	Max int
}

// Validate implements validation.Rule.
func (p PasswordLength) Validate(value any) error {
	value, isNil := validation.Indirect(value)
	if isNil {
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return validation.NewError("validation_password_type", "password must be a string")
	}
	if s == "" {
		return nil
	}

	n := utf8.RuneCountInString(s)
	if n < p.Min {
		return validation.NewError(
			"validation_password_min_length",
			fmt.Sprintf("password must be at least %d characters", p.Min),
		)
	}
	if p.Max > 0 && n > p.Max {
		return validation.NewError(
			"validation_password_max_length",
			fmt.Sprintf("password must be at most %d characters", p.Max),
		)
	}
	return nil
}

// DefaultPassword applies to passwords set through the API and the CLI.
// The upper bound keeps argon2id hashing cost predictable.
var DefaultPassword = PasswordLength{Min: 8, Max: 1024}

// Login accepts 1-64 letters, digits and . _ @ + - characters.
var Login = validation.NewStringRuleWithError(
	loginPattern.MatchString,
	validation.NewError("validation_login_format", "must be 1-64 letters, digits or . _ @ + - characters"),
)

// NotBlank rejects strings made only of whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool { return strings.TrimSpace(s) != "" },
	validation.NewError("validation_not_blank", "must not be blank"),
)
