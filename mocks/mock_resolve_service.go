package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"draftwise/internal/domain"
	"draftwise/internal/resolver"
)

// MockResolveService is a mock implementation of service.ResolveService.
type MockResolveService struct {
	mock.Mock
}

func (m *MockResolveService) ResolveClient(ctx context.Context, userID uuid.UUID, partial domain.ExtractedClient) (*resolver.Resolution[domain.Client], error) {
	args := m.Called(ctx, userID, partial)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resolver.Resolution[domain.Client]), args.Error(1)
}

func (m *MockResolveService) ResolveProduct(ctx context.Context, userID uuid.UUID, query resolver.ProductQuery) (*resolver.Resolution[domain.Product], error) {
	args := m.Called(ctx, userID, query)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*resolver.Resolution[domain.Product]), args.Error(1)
}
