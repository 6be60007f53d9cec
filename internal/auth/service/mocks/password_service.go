// Package mocks provides mock implementations of the authentication services for testing.
package mocks

import (
	"github.com/stretchr/testify/mock"
)

// MockPasswordService is a mock implementation of PasswordService for testing.
type MockPasswordService struct {
	mock.Mock
}

// HashPassword mocks the HashPassword method of PasswordService.
func (m *MockPasswordService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

// ComparePassword mocks the ComparePassword method of PasswordService.
func (m *MockPasswordService) ComparePassword(password string, hash string) bool {
	args := m.Called(password, hash)
	return args.Bool(0)
}
