package order

import (
	"context"
	"errors"
	"time"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrIllegalTransition = errors.New("illegal status transition")
)

// Repository defines data access for orders.
type Repository interface {
	// ListOrders returns every order, newest first.
	ListOrders(ctx context.Context) ([]*Order, error)

	// GetOrderByID retrieves a single order with its items.
	GetOrderByID(ctx context.Context, id string) (*Order, error)

	// UpdateStatus writes the requested stage's storage value and a fresh
	// updated_at in a single UPDATE keyed by id, then returns the updated
	// row. Last writer wins; there is no optimistic-concurrency token.
	UpdateStatus(ctx context.Context, id string, requested Stage, now time.Time) (*Order, error)

	// ListItems returns an order's line items in insertion order.
	ListItems(ctx context.Context, orderID string) ([]*OrderItem, error)
}
