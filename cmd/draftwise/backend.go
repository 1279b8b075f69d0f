package main

import (
	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"draftwise/internal/extraction"
	"draftwise/internal/llm/providers"
	"draftwise/internal/port"
	"draftwise/internal/repository/filestore"
	"draftwise/internal/repository/sqlrepo"
	"draftwise/internal/resolver"
	"draftwise/internal/service"
)

// backend bundles the repositories for one invocation.
type backend struct {
	profiles port.ProfileRepository
	clients  port.ClientRepository
	products port.ProductRepository
	userID   uuid.UUID
	close    func()
}

func openBackend() (*backend, error) {
	if contextFile != "" {
		store, err := filestore.Load(contextFile)
		if err != nil {
			return nil, err
		}
		userID, err := pickUser(userFlag, store.Users())
		if err != nil {
			return nil, err
		}
		return &backend{
			profiles: store,
			clients:  store.Clients(),
			products: store.Products(),
			userID:   userID,
			close:    func() {},
		}, nil
	}

	userID, err := pickUser(userFlag, nil)
	if err != nil {
		return nil, err
	}
	db, err := sqlrepo.NewDB(&cfg.DB)
	if err != nil {
		return nil, err
	}
	return &backend{
		profiles: sqlrepo.NewProfileRepo(db),
		clients:  sqlrepo.NewClientRepo(db),
		products: sqlrepo.NewProductRepo(db),
		userID:   userID,
		close:    func() { _ = db.Close() },
	}, nil
}

// pickUser parses flag, or falls back to the only known user.
func pickUser(flag string, known []uuid.UUID) (uuid.UUID, error) {
	if flag != "" {
		id, err := uuid.Parse(flag)
		if err != nil {
			return uuid.Nil, eris.Wrapf(err, "invalid --user %q", flag)
		}
		return id, nil
	}
	if len(known) == 1 {
		return known[0], nil
	}
	return uuid.Nil, eris.New("--user is required")
}

func (b *backend) resolver() *resolver.Resolver {
	return service.NewResolver(cfg.Extraction)
}

func (b *backend) extractor() (*extraction.Extractor, error) {
	model, err := providers.Build(&cfg.Model)
	if err != nil {
		return nil, eris.Wrap(err, "building text model")
	}
	return extraction.NewExtractor(model, b.profiles, b.clients, b.products,
		extraction.WithModelTimeout(cfg.Extraction.ModelTimeout),
		extraction.WithResolver(b.resolver()),
	), nil
}
