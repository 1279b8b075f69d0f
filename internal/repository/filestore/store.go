// Package filestore serves business context from a YAML file. It backs the
// command line tool when no database is configured.
package filestore

import (
	"context"
	"os"
	"sort"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"draftwise/internal/domain"
)

type fileProfile struct {
	BusinessName   string `yaml:"business_name"`
	Email          string `yaml:"email"`
	Phone          string `yaml:"phone"`
	Address        string `yaml:"address"`
	TaxNumber      string `yaml:"tax_number"`
	DefaultTaxRate string `yaml:"default_tax_rate"`
	Currency       string `yaml:"currency"`
}

type fileClient struct {
	ID        string `yaml:"id"`
	Name      string `yaml:"name"`
	Email     string `yaml:"email"`
	Phone     string `yaml:"phone"`
	Address   string `yaml:"address"`
	TaxNumber string `yaml:"tax_number"`
}

type fileProduct struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	UnitPrice   string `yaml:"unit_price"`
	TaxRate     string `yaml:"tax_rate"`
	Recurrence  string `yaml:"recurrence"`
}

type document struct {
	Profiles map[string]fileProfile   `yaml:"profiles"`
	Clients  map[string][]fileClient  `yaml:"clients"`
	Products map[string][]fileProduct `yaml:"products"`
}

// Store holds every user's business context in memory. It is a
// ProfileRepository; Clients and Products expose the list repositories.
type Store struct {
	profiles map[uuid.UUID]domain.BusinessProfile
	clients  map[uuid.UUID][]domain.Client
	products map[uuid.UUID][]domain.Product
}

// Load reads and validates the YAML file at path.
func Load(path string) (*Store, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "reading %s", path)
	}
	return Parse(raw)
}

// Parse builds a Store from YAML. Records without an id get one derived
// from the owning user and the record name, so ids are stable across loads.
func Parse(raw []byte) (*Store, error) {
	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, eris.Wrap(err, "decoding business context")
	}

	s := &Store{
		profiles: make(map[uuid.UUID]domain.BusinessProfile, len(doc.Profiles)),
		clients:  make(map[uuid.UUID][]domain.Client, len(doc.Clients)),
		products: make(map[uuid.UUID][]domain.Product, len(doc.Products)),
	}

	for key, p := range doc.Profiles {
		userID, err := uuid.Parse(key)
		if err != nil {
			return nil, eris.Wrapf(err, "profile key %q", key)
		}
		rate, err := parseDecimal(p.DefaultTaxRate)
		if err != nil {
			return nil, eris.Wrapf(err, "profile %s default_tax_rate", key)
		}
		currency := p.Currency
		if currency == "" {
			currency = "USD"
		}
		s.profiles[userID] = domain.BusinessProfile{
			UserID:         userID,
			BusinessName:   p.BusinessName,
			Email:          p.Email,
			Phone:          p.Phone,
			Address:        p.Address,
			TaxNumber:      p.TaxNumber,
			DefaultTaxRate: rate,
			Currency:       currency,
		}
	}

	for key, list := range doc.Clients {
		userID, err := uuid.Parse(key)
		if err != nil {
			return nil, eris.Wrapf(err, "clients key %q", key)
		}
		clients := make([]domain.Client, 0, len(list))
		for _, c := range list {
			id, err := recordID(userID, c.ID, c.Name)
			if err != nil {
				return nil, eris.Wrapf(err, "client %q", c.Name)
			}
			clients = append(clients, domain.Client{
				ID:        id,
				UserID:    userID,
				Name:      c.Name,
				Email:     c.Email,
				Phone:     c.Phone,
				Address:   c.Address,
				TaxNumber: c.TaxNumber,
			})
		}
		s.clients[userID] = clients
	}

	for key, list := range doc.Products {
		userID, err := uuid.Parse(key)
		if err != nil {
			return nil, eris.Wrapf(err, "products key %q", key)
		}
		products := make([]domain.Product, 0, len(list))
		for _, p := range list {
			product, err := toProduct(userID, p)
			if err != nil {
				return nil, eris.Wrapf(err, "product %q", p.Name)
			}
			products = append(products, product)
		}
		s.products[userID] = products
	}

	return s, nil
}

func toProduct(userID uuid.UUID, p fileProduct) (domain.Product, error) {
	id, err := recordID(userID, p.ID, p.Name)
	if err != nil {
		return domain.Product{}, err
	}
	price, err := parseDecimal(p.UnitPrice)
	if err != nil {
		return domain.Product{}, eris.Wrap(err, "unit_price")
	}
	product := domain.Product{
		ID:          id,
		UserID:      userID,
		Name:        p.Name,
		Description: p.Description,
		UnitPrice:   price,
		Recurrence:  domain.RecurrenceOneTime,
	}
	if p.TaxRate != "" {
		rate, err := decimal.NewFromString(p.TaxRate)
		if err != nil {
			return domain.Product{}, eris.Wrap(err, "tax_rate")
		}
		product.TaxRate = &rate
	}
	if p.Recurrence != "" {
		r := domain.Recurrence(p.Recurrence)
		switch r {
		case domain.RecurrenceOneTime, domain.RecurrenceMonthly, domain.RecurrenceYearly:
			product.Recurrence = r
		default:
			return domain.Product{}, eris.Errorf("unknown recurrence %q", p.Recurrence)
		}
	}
	return product, nil
}

func recordID(userID uuid.UUID, raw, name string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.NewSHA1(userID, []byte(name)), nil
	}
	return uuid.Parse(raw)
}

func parseDecimal(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(raw)
}

// Users returns the ids of every user with a profile, sorted.
func (s *Store) Users() []uuid.UUID {
	users := make([]uuid.UUID, 0, len(s.profiles))
	for id := range s.profiles {
		users = append(users, id)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].String() < users[j].String() })
	return users
}

func (s *Store) GetByUserID(_ context.Context, userID uuid.UUID) (*domain.BusinessProfile, error) {
	p, ok := s.profiles[userID]
	if !ok {
		return nil, domain.ErrProfileNotFound
	}
	return &p, nil
}

// Clients returns the store as a ClientRepository.
func (s *Store) Clients() ClientView { return ClientView{s} }

// Products returns the store as a ProductRepository.
func (s *Store) Products() ProductView { return ProductView{s} }

// ClientView lists clients from a Store.
type ClientView struct{ s *Store }

func (v ClientView) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Client, error) {
	out := make([]domain.Client, len(v.s.clients[userID]))
	copy(out, v.s.clients[userID])
	return out, nil
}

// ProductView lists products from a Store.
type ProductView struct{ s *Store }

func (v ProductView) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.Product, error) {
	out := make([]domain.Product, len(v.s.products[userID]))
	copy(out, v.s.products[userID])
	return out, nil
}
