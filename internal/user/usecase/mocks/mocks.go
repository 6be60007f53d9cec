// Package mocks provides mock implementations of the user use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	userDomain "github.com/allisson/dmvault/internal/user/domain"
)

// MockUserUseCase is a mock implementation of UserUseCase for testing.
type MockUserUseCase struct {
	mock.Mock
}

// List mocks the List method of UserUseCase.
func (m *MockUserUseCase) List(ctx context.Context) ([]userDomain.UserSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]userDomain.UserSummary), args.Error(1)
}

// Find mocks the Find method of UserUseCase.
func (m *MockUserUseCase) Find(ctx context.Context, login string) (*userDomain.User, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// Create mocks the Create method of UserUseCase.
func (m *MockUserUseCase) Create(
	ctx context.Context,
	login, password, displayName string,
) (*userDomain.User, error) {
	args := m.Called(ctx, login, password, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// Update mocks the Update method of UserUseCase.
func (m *MockUserUseCase) Update(
	ctx context.Context,
	login string,
	input userDomain.UpdateUserInput,
) (*userDomain.User, error) {
	args := m.Called(ctx, login, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}

// Delete mocks the Delete method of UserUseCase.
func (m *MockUserUseCase) Delete(ctx context.Context, login string) error {
	args := m.Called(ctx, login)
	return args.Error(0)
}

// Verify mocks the Verify method of UserUseCase.
func (m *MockUserUseCase) Verify(ctx context.Context, login, password string) (*userDomain.User, error) {
	args := m.Called(ctx, login, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*userDomain.User), args.Error(1)
}
