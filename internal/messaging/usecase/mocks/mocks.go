// Package mocks provides mock implementations of the messaging use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	messagingDomain "github.com/allisson/dmvault/internal/messaging/domain"
)

// MockMessageUseCase is a mock implementation of MessageUseCase for testing.
type MockMessageUseCase struct {
	mock.Mock
}

// Append mocks the Append method of MessageUseCase.
func (m *MockMessageUseCase) Append(
	ctx context.Context,
	from, to, text string,
) (*messagingDomain.Message, error) {
	args := m.Called(ctx, from, to, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*messagingDomain.Message), args.Error(1)
}

// ReadConversation mocks the ReadConversation method of MessageUseCase.
func (m *MockMessageUseCase) ReadConversation(
	ctx context.Context,
	a, b string,
) ([]*messagingDomain.Message, error) {
	args := m.Called(ctx, a, b)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*messagingDomain.Message), args.Error(1)
}

// DialogsFor mocks the DialogsFor method of MessageUseCase.
func (m *MockMessageUseCase) DialogsFor(
	ctx context.Context,
	login string,
) ([]messagingDomain.DialogSummary, error) {
	args := m.Called(ctx, login)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]messagingDomain.DialogSummary), args.Error(1)
}

// Stats mocks the Stats method of MessageUseCase.
func (m *MockMessageUseCase) Stats(ctx context.Context) (messagingDomain.LogStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(messagingDomain.LogStats), args.Error(1)
}
