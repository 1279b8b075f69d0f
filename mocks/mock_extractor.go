package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
)

// MockExtractor is a mock implementation of the extraction step used by the
// workflow and the services.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) Extract(ctx context.Context, in domain.RawInput) (*extraction.Outcome, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*extraction.Outcome), args.Error(1)
}

func (m *MockExtractor) ExtractClient(ctx context.Context, text string, userID uuid.UUID) (*domain.ExtractedClient, error) {
	args := m.Called(ctx, text, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedClient), args.Error(1)
}

func (m *MockExtractor) LoadContext(ctx context.Context, userID uuid.UUID) (domain.BusinessContext, []string, error) {
	args := m.Called(ctx, userID)
	var warnings []string
	if w := args.Get(1); w != nil {
		warnings = w.([]string)
	}
	return args.Get(0).(domain.BusinessContext), warnings, args.Error(2)
}
