package sqlrepo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rotisserie/eris"

	"draftwise/internal/domain"
	"draftwise/internal/port"
)

type profileRepo struct {
	db *sqlx.DB
}

// NewProfileRepo creates a new SQL-backed ProfileRepository.
func NewProfileRepo(db *sqlx.DB) port.ProfileRepository {
	return &profileRepo{db: db}
}

func (r *profileRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.BusinessProfile, error) {
	query := r.db.Rebind(`SELECT user_id, business_name, email, phone, address, tax_number,
		default_tax_rate, currency
		FROM business_profiles WHERE user_id = ?`)

	var profile domain.BusinessProfile
	if err := r.db.GetContext(ctx, &profile, query, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrProfileNotFound
		}
		return nil, eris.Wrap(err, "profileRepo.GetByUserID")
	}
	return &profile, nil
}
