package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
	"draftwise/internal/service"
	"draftwise/mocks"
)

func businessContext() domain.BusinessContext {
	return domain.BusinessContext{
		Profile: domain.BusinessProfile{BusinessName: "Studio"},
		Clients: []domain.Client{
			{ID: uuid.New(), Name: "Acme Corp", Email: "billing@acme.com", Phone: "+1 555 0100"},
			{ID: uuid.New(), Name: "Globex"},
		},
		Products: []domain.Product{
			{ID: uuid.New(), Name: "Web Design", Description: "Website design services"},
			{ID: uuid.New(), Name: "Hosting", Description: "Monthly hosting"},
		},
	}
}

func TestExtractionService_Extract_ResolvesAgainstSnapshot(t *testing.T) {
	ex := new(mocks.MockExtractor)
	userID := uuid.New()
	bc := businessContext()
	result := &domain.ParseResult{
		Client: domain.ExtractedClient{Name: "Acme Corp", Email: "billing@acme.com", Phone: "15550100", Confidence: domain.ConfidenceHigh},
		Items: []domain.ExtractedLineItem{
			{Description: "Web Design", Quantity: "1", UnitPrice: "500.00", Subtotal: "500.00", Total: "500.00"},
			{Description: "Hosting", Quantity: "1", UnitPrice: "20.00", Subtotal: "20.00", Total: "20.00"},
		},
	}
	ex.On("Extract", mock.Anything, domain.RawInput{Text: "bill acme", DocumentType: domain.DocumentTypeInvoice, UserID: userID}).
		Return(&extraction.Outcome{Result: result, Valid: true, Context: bc}, nil)

	svc := service.NewExtractionService(ex, nil)
	resp, err := svc.Extract(context.Background(), userID, service.ExtractionInput{Text: "bill acme", DocumentType: domain.DocumentTypeInvoice})

	require.NoError(t, err)
	assert.Same(t, result, resp.Result)
	assert.Equal(t, domain.ConfidenceHigh, resp.ClientMatches.Confidence)
	top, ok := resp.ClientMatches.Top()
	require.True(t, ok)
	assert.Equal(t, bc.Clients[0].ID, top.Candidate.ID)
	assert.Empty(t, result.Client.ID)

	require.Len(t, resp.ProductMatches, 2)
	p0, _ := resp.ProductMatches[0].Top()
	assert.Equal(t, bc.Products[0].ID, p0.Candidate.ID)
	p1, _ := resp.ProductMatches[1].Top()
	assert.Equal(t, bc.Products[1].ID, p1.Candidate.ID)
	ex.AssertExpectations(t)
}

func TestExtractionService_Extract_NoCandidates(t *testing.T) {
	ex := new(mocks.MockExtractor)
	result := &domain.ParseResult{
		Client: domain.ExtractedClient{Name: "Acme"},
		Items:  []domain.ExtractedLineItem{{Description: "Work"}},
	}
	ex.On("Extract", mock.Anything, mock.Anything).Return(&extraction.Outcome{Result: result}, nil)

	resp, err := service.NewExtractionService(ex, nil).Extract(context.Background(), uuid.New(),
		service.ExtractionInput{Text: "x", DocumentType: domain.DocumentTypeQuote})

	require.NoError(t, err)
	assert.Empty(t, resp.ClientMatches.Matches)
	assert.Equal(t, domain.ConfidenceLow, resp.ClientMatches.Confidence)
	require.Len(t, resp.ProductMatches, 1)
	assert.Equal(t, domain.ConfidenceLow, resp.ProductMatches[0].Confidence)
}

func TestExtractionService_Extract_Error(t *testing.T) {
	ex := new(mocks.MockExtractor)
	ex.On("Extract", mock.Anything, mock.Anything).Return(nil, domain.ErrProfileNotFound)

	_, err := service.NewExtractionService(ex, nil).Extract(context.Background(), uuid.New(),
		service.ExtractionInput{Text: "x", DocumentType: domain.DocumentTypeInvoice})

	assert.True(t, errors.Is(err, domain.ErrProfileNotFound))
}

func TestExtractionService_ExtractClient(t *testing.T) {
	ex := new(mocks.MockExtractor)
	userID := uuid.New()
	client := &domain.ExtractedClient{Name: "Acme", Confidence: domain.ConfidenceMedium}
	ex.On("ExtractClient", mock.Anything, "Acme, billing@acme.com", userID).Return(client, nil)

	got, err := service.NewExtractionService(ex, nil).ExtractClient(context.Background(), userID,
		service.ClientExtractionInput{Text: "Acme, billing@acme.com"})

	require.NoError(t, err)
	assert.Same(t, client, got)
}
