package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a laundry/ironing service offered to customers, e.g. a shirt
// under the ironing category. The admin console only reads the catalog;
// managing it belongs to another system.
type Product struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	ImageURL  string          `json:"image_url,omitempty"`
	IsActive  bool            `json:"is_active"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Repository defines read access to the catalog.
type Repository interface {
	List(ctx context.Context) ([]*Product, error)
	Count(ctx context.Context) (int, error)
}
