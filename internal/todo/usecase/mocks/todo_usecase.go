// Package mocks provides mock implementations of the todo use cases for testing.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/allisson/todos/internal/todo/domain"
)

// MockTodoUseCase is a mock implementation of TodoUseCase for testing.
type MockTodoUseCase struct {
	mock.Mock
}

// Create mocks the Create method of TodoUseCase.
func (m *MockTodoUseCase) Create(ctx context.Context, input domain.CreateTodoInput) (*domain.Todo, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Todo), args.Error(1)
}
