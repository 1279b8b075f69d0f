package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"draftwise/internal/domain"
	"draftwise/internal/extraction"
	"draftwise/internal/resolver"
)

// Extractor is the extraction orchestrator the services depend on.
type Extractor interface {
	Extract(ctx context.Context, in domain.RawInput) (*extraction.Outcome, error)
	ExtractClient(ctx context.Context, text string, userID uuid.UUID) (*domain.ExtractedClient, error)
	LoadContext(ctx context.Context, userID uuid.UUID) (domain.BusinessContext, []string, error)
}

// ExtractionInput is the DTO for document extraction requests.
type ExtractionInput struct {
	Text         string              `json:"text" binding:"required"`
	DocumentType domain.DocumentType `json:"document_type" binding:"required"`
}

// ClientExtractionInput is the DTO for client-only extraction requests.
type ClientExtractionInput struct {
	Text string `json:"text" binding:"required"`
}

// ExtractionResponse is an extraction outcome together with the resolver's
// ranking of existing clients and products. Matches are advisory; ids the
// model returned are left as they are.
type ExtractionResponse struct {
	*extraction.Outcome
	ClientMatches  resolver.Resolution[domain.Client]    `json:"client_matches"`
	ProductMatches []resolver.Resolution[domain.Product] `json:"product_matches"`
}

// ExtractionService defines the extraction contract.
type ExtractionService interface {
	Extract(ctx context.Context, userID uuid.UUID, input ExtractionInput) (*ExtractionResponse, error)
	ExtractClient(ctx context.Context, userID uuid.UUID, input ClientExtractionInput) (*domain.ExtractedClient, error)
}

type extractionService struct {
	extractor Extractor
	resolver  *resolver.Resolver
}

// NewExtractionService creates a new ExtractionService implementation.
func NewExtractionService(extractor Extractor, res *resolver.Resolver) ExtractionService {
	if res == nil {
		res = resolver.New()
	}
	return &extractionService{extractor: extractor, resolver: res}
}

func (s *extractionService) Extract(ctx context.Context, userID uuid.UUID, input ExtractionInput) (*ExtractionResponse, error) {
	out, err := s.extractor.Extract(ctx, domain.RawInput{
		Text:         input.Text,
		DocumentType: input.DocumentType,
		UserID:       userID,
	})
	if err != nil {
		return nil, eris.Wrap(err, "extracting document")
	}

	resp := &ExtractionResponse{
		Outcome:        out,
		ClientMatches:  s.resolver.ResolveClient(out.Result.Client, out.Context.Clients),
		ProductMatches: make([]resolver.Resolution[domain.Product], len(out.Result.Items)),
	}
	for i, item := range out.Result.Items {
		resp.ProductMatches[i] = s.resolver.ResolveProduct(resolver.ProductQueryFromItem(item), out.Context.Products)
	}

	zap.L().Info("document extracted",
		zap.String("user_id", userID.String()),
		zap.String("document_type", string(input.DocumentType)),
		zap.Bool("valid", out.Valid),
		zap.Bool("fallback", out.Fallback),
		zap.Bool("needs_clarification", out.Result.NeedsClarification),
		zap.String("client_confidence", string(resp.ClientMatches.Confidence)))
	return resp, nil
}

func (s *extractionService) ExtractClient(ctx context.Context, userID uuid.UUID, input ClientExtractionInput) (*domain.ExtractedClient, error) {
	client, err := s.extractor.ExtractClient(ctx, input.Text, userID)
	if err != nil {
		return nil, eris.Wrap(err, "extracting client")
	}
	return client, nil
}
