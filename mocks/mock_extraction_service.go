package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"draftwise/internal/domain"
	"draftwise/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, userID uuid.UUID, input service.ExtractionInput) (*service.ExtractionResponse, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractionResponse), args.Error(1)
}

func (m *MockExtractionService) ExtractClient(ctx context.Context, userID uuid.UUID, input service.ClientExtractionInput) (*domain.ExtractedClient, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedClient), args.Error(1)
}
