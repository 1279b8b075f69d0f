package sqlrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"

	"draftwise/internal/domain"
	"draftwise/internal/port"
)

type productRepo struct {
	db *sqlx.DB
}

// NewProductRepo creates a new SQL-backed ProductRepository.
func NewProductRepo(db *sqlx.DB) port.ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error) {
	query := r.db.Rebind(`SELECT id, user_id, name, description, unit_price, tax_rate, recurrence, created_at
		FROM products WHERE user_id = ? ORDER BY created_at, id`)

	products := []domain.Product{}
	if err := r.db.SelectContext(ctx, &products, query, userID); err != nil {
		return nil, eris.Wrap(err, "productRepo.ListByUser")
	}
	return products, nil
}
