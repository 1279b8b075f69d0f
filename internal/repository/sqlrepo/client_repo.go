package sqlrepo

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"

	"draftwise/internal/domain"
	"draftwise/internal/port"
)

type clientRepo struct {
	db *sqlx.DB
}

// NewClientRepo creates a new SQL-backed ClientRepository.
func NewClientRepo(db *sqlx.DB) port.ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error) {
	query := r.db.Rebind(`SELECT id, user_id, name, email, phone, address, tax_number, created_at
		FROM clients WHERE user_id = ? ORDER BY created_at, id`)

	clients := []domain.Client{}
	if err := r.db.SelectContext(ctx, &clients, query, userID); err != nil {
		return nil, eris.Wrap(err, "clientRepo.ListByUser")
	}
	return clients, nil
}
