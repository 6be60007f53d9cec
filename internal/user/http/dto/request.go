// Package dto provides data transfer objects for the user HTTP layer.
package dto

import (
	validation "github.com/jellydator/validation"

	userDomain "github.com/allisson/dmvault/internal/user/domain"
	customValidation "github.com/allisson/dmvault/internal/validation"
)

// CreateUserRequest contains the parameters for creating a user.
type CreateUserRequest struct {
	Login       string `json:"login"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

// Validate checks if the create user request is valid. Accounts created over
// HTTP must satisfy the default password policy.
func (r *CreateUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Login,
			validation.Required.Error("login is required"),
			customValidation.Login,
		),
		validation.Field(&r.Password,
			validation.Required.Error("password is required"),
			customValidation.DefaultPassword,
		),
		validation.Field(&r.DisplayName,
			customValidation.NotBlank,
			validation.RuneLength(0, userDomain.MaxDisplayNameLength),
		),
	)
	return customValidation.WrapValidationError(err)
}

// UpdateUserRequest contains the fields to change on a user. Omitted fields
// are left unchanged.
type UpdateUserRequest struct {
	Password    *string `json:"password"`
	DisplayName *string `json:"displayName"`
}

// Validate checks if the update user request is valid.
func (r *UpdateUserRequest) Validate() error {
	err := validation.ValidateStruct(r,
		validation.Field(&r.Password,
			validation.NilOrNotEmpty.Error("password cannot be empty"),
			customValidation.DefaultPassword,
		),
		validation.Field(&r.DisplayName,
			validation.NilOrNotEmpty.Error("displayName cannot be empty"),
			customValidation.NotBlank,
			validation.RuneLength(0, userDomain.MaxDisplayNameLength),
		),
	)
	return customValidation.WrapValidationError(err)
}

// ToUpdateUserInput converts the request to the use case input.
func (r *UpdateUserRequest) ToUpdateUserInput() userDomain.UpdateUserInput {
	return userDomain.UpdateUserInput{
		Password:    r.Password,
		DisplayName: r.DisplayName,
	}
}
