package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"draftwise/internal/config"
	"draftwise/internal/domain"
	"draftwise/internal/port"
	"draftwise/internal/resolver"
)

// ResolveService ranks a user's existing clients and products against a
// partial description.
type ResolveService interface {
	ResolveClient(ctx context.Context, userID uuid.UUID, partial domain.ExtractedClient) (*resolver.Resolution[domain.Client], error)
	ResolveProduct(ctx context.Context, userID uuid.UUID, query resolver.ProductQuery) (*resolver.Resolution[domain.Product], error)
}

type resolveService struct {
	clients  port.ClientRepository
	products port.ProductRepository
	resolver *resolver.Resolver
}

// NewResolver builds a Resolver from the extraction config. Unset
// thresholds keep the resolver defaults.
func NewResolver(cfg config.ExtractionConfig) *resolver.Resolver {
	opts := []resolver.Option{resolver.WithTopN(cfg.TopN)}
	if cfg.ClientHigh > 0 {
		opts = append(opts, resolver.WithClientThresholds(resolver.Thresholds{High: cfg.ClientHigh, Medium: cfg.ClientMedium}))
	}
	if cfg.ProductHigh > 0 {
		opts = append(opts, resolver.WithProductThresholds(resolver.Thresholds{High: cfg.ProductHigh, Medium: cfg.ProductMedium}))
	}
	return resolver.New(opts...)
}

// NewResolveService creates a new ResolveService implementation.
func NewResolveService(clients port.ClientRepository, products port.ProductRepository, res *resolver.Resolver) ResolveService {
	if res == nil {
		res = resolver.New()
	}
	return &resolveService{clients: clients, products: products, resolver: res}
}

func (s *resolveService) ResolveClient(ctx context.Context, userID uuid.UUID, partial domain.ExtractedClient) (*resolver.Resolution[domain.Client], error) {
	if strings.TrimSpace(partial.Name) == "" && partial.Email == "" && partial.Phone == "" && partial.TaxNumber == "" {
		return nil, eris.Wrap(domain.ErrEmptyInput, "client query has no name, email, phone or tax number")
	}
	candidates, err := s.clients.ListByUser(ctx, userID)
	if err != nil {
		return nil, eris.Wrapf(err, "listing clients for user %s", userID)
	}
	res := s.resolver.ResolveClient(partial, candidates)
	return &res, nil
}

func (s *resolveService) ResolveProduct(ctx context.Context, userID uuid.UUID, query resolver.ProductQuery) (*resolver.Resolution[domain.Product], error) {
	if strings.TrimSpace(query.Name) == "" && strings.TrimSpace(query.Description) == "" {
		return nil, eris.Wrap(domain.ErrEmptyInput, "product query has no name or description")
	}
	candidates, err := s.products.ListByUser(ctx, userID)
	if err != nil {
		return nil, eris.Wrapf(err, "listing products for user %s", userID)
	}
	res := s.resolver.ResolveProduct(query, candidates)
	return &res, nil
}
