package port

import (
	"context"

	"github.com/google/uuid"

	"draftwise/internal/domain"
)

// ProfileRepository reads business profiles.
type ProfileRepository interface {
	// GetByUserID returns domain.ErrProfileNotFound when the user has no profile.
	GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.BusinessProfile, error)
}

// ClientRepository reads a user's existing clients.
type ClientRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Client, error)
}

// ProductRepository reads a user's existing products.
type ProductRepository interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Product, error)
}
