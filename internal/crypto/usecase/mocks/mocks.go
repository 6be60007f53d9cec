// Package mocks provides mock implementations of the crypto use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockConversationKeyUseCase is a mock implementation of ConversationKeyUseCase for testing.
type MockConversationKeyUseCase struct {
	mock.Mock
}

// GetOrCreateKey mocks the GetOrCreateKey method of ConversationKeyUseCase.
func (m *MockConversationKeyUseCase) GetOrCreateKey(ctx context.Context, conversationID string) ([]byte, error) {
	args := m.Called(ctx, conversationID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Count mocks the Count method of ConversationKeyUseCase.
func (m *MockConversationKeyUseCase) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}
