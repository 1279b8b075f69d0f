package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BusinessProfile describes the business on whose behalf documents are drafted.
type BusinessProfile struct {
	UserID         uuid.UUID       `db:"user_id" json:"user_id"`
	BusinessName   string          `db:"business_name" json:"business_name"`
	Email          string          `db:"email" json:"email"`
	Phone          string          `db:"phone" json:"phone"`
	Address        string          `db:"address" json:"address"`
	TaxNumber      string          `db:"tax_number" json:"tax_number"`
	DefaultTaxRate decimal.Decimal `db:"default_tax_rate" json:"default_tax_rate"`
	Currency       string          `db:"currency" json:"currency"`
}

// Client is an existing customer record owned by a user.
type Client struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone"`
	Address   string    `db:"address" json:"address"`
	TaxNumber string    `db:"tax_number" json:"tax_number"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product is an existing catalogue item owned by a user.
type Product struct {
	ID          uuid.UUID        `db:"id" json:"id"`
	UserID      uuid.UUID        `db:"user_id" json:"user_id"`
	Name        string           `db:"name" json:"name"`
	Description string           `db:"description" json:"description"`
	UnitPrice   decimal.Decimal  `db:"unit_price" json:"unit_price"`
	TaxRate     *decimal.Decimal `db:"tax_rate" json:"tax_rate,omitempty"`
	Recurrence  Recurrence       `db:"recurrence" json:"recurrence"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}

// BusinessContext is a point-in-time snapshot of everything the extractor
// knows about a user's business. It is fetched fresh for every extraction.
type BusinessContext struct {
	Profile  BusinessProfile `json:"profile"`
	Clients  []Client        `json:"clients"`
	Products []Product       `json:"products"`
}
