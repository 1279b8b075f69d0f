package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"draftwise/internal/config"
	"draftwise/internal/domain"
	"draftwise/internal/resolver"
	"draftwise/internal/service"
	"draftwise/mocks"
)

func TestResolveService_ResolveClient(t *testing.T) {
	clients, products := new(mocks.MockClientRepo), new(mocks.MockProductRepo)
	userID := uuid.New()
	bc := businessContext()
	clients.On("ListByUser", mock.Anything, userID).Return(bc.Clients, nil)

	svc := service.NewResolveService(clients, products, nil)
	res, err := svc.ResolveClient(context.Background(), userID, domain.ExtractedClient{Name: "acme corp", Email: "BILLING@acme.com", Phone: "1-555-0100"})

	require.NoError(t, err)
	assert.Equal(t, domain.ConfidenceHigh, res.Confidence)
	assert.Equal(t, bc.Clients[0].ID, res.Matches[0].Candidate.ID)
}

func TestResolveService_ResolveClient_EmptyQuery(t *testing.T) {
	svc := service.NewResolveService(new(mocks.MockClientRepo), new(mocks.MockProductRepo), nil)
	_, err := svc.ResolveClient(context.Background(), uuid.New(), domain.ExtractedClient{Name: "  "})
	assert.True(t, errors.Is(err, domain.ErrEmptyInput))
}

func TestResolveService_ResolveClient_RepoError(t *testing.T) {
	clients := new(mocks.MockClientRepo)
	clients.On("ListByUser", mock.Anything, mock.Anything).Return(nil, errors.New("db down"))

	svc := service.NewResolveService(clients, new(mocks.MockProductRepo), nil)
	_, err := svc.ResolveClient(context.Background(), uuid.New(), domain.ExtractedClient{Name: "Acme"})
	assert.Error(t, err)
}

func TestResolveService_ResolveProduct(t *testing.T) {
	products := new(mocks.MockProductRepo)
	userID := uuid.New()
	bc := businessContext()
	products.On("ListByUser", mock.Anything, userID).Return(bc.Products, nil)

	svc := service.NewResolveService(new(mocks.MockClientRepo), products, nil)
	res, err := svc.ResolveProduct(context.Background(), userID, resolver.ProductQuery{Name: "hosting"})

	require.NoError(t, err)
	assert.Equal(t, bc.Products[1].ID, res.Matches[0].Candidate.ID)
	assert.Equal(t, domain.ConfidenceHigh, res.Confidence)
}

func TestResolveService_ResolveProduct_EmptyQuery(t *testing.T) {
	svc := service.NewResolveService(new(mocks.MockClientRepo), new(mocks.MockProductRepo), nil)
	_, err := svc.ResolveProduct(context.Background(), uuid.New(), resolver.ProductQuery{})
	assert.True(t, errors.Is(err, domain.ErrEmptyInput))
}

func TestNewResolver_FromConfig(t *testing.T) {
	// a raised client threshold turns an exact name-only match from high into low
	strict := service.NewResolver(config.ExtractionConfig{ClientHigh: 100, ClientMedium: 50, TopN: 1})
	res := strict.ResolveClient(domain.ExtractedClient{Name: "Acme"}, []domain.Client{{Name: "Acme"}, {Name: "Acme Two"}})
	assert.Equal(t, domain.ConfidenceLow, res.Confidence)
	assert.Len(t, res.Matches, 1)

	defaults := service.NewResolver(config.ExtractionConfig{})
	res = defaults.ResolveClient(domain.ExtractedClient{Name: "Acme", Email: "a@acme.com"}, []domain.Client{{Name: "Acme", Email: "a@acme.com"}})
	assert.Equal(t, domain.ConfidenceMedium, res.Confidence)
}
