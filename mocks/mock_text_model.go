package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"draftwise/internal/port"
)

// MockTextModel is a mock implementation of port.TextModel.
type MockTextModel struct {
	mock.Mock
}

func (m *MockTextModel) Complete(ctx context.Context, prompt string, format port.ResponseFormat) (string, error) {
	args := m.Called(ctx, prompt, format)
	return args.String(0), args.Error(1)
}
