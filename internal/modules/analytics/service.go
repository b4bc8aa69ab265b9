package analytics

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ironxpress/admin-backend/internal/modules/catalog"
	"github.com/ironxpress/admin-backend/internal/modules/customer"
	"github.com/ironxpress/admin-backend/internal/modules/order"
)

// Overview backs the analytics page: order volume and revenue next to the
// size of the customer base and catalog.
type Overview struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalRevenue  decimal.Decimal `json:"totalRevenue"`
	TotalUsers    int             `json:"totalUsers"`
	TotalProducts int             `json:"totalProducts"`
}

// Service derives the analytics overview from the other modules.
type Service interface {
	Overview(ctx context.Context) (Overview, error)
}

type service struct {
	orders    order.Service
	customers customer.Service
	catalog   catalog.Service
}

// NewService creates a new analytics service.
func NewService(orders order.Service, customers customer.Service, catalog catalog.Service) Service {
	return &service{orders: orders, customers: customers, catalog: catalog}
}

func (s *service) Overview(ctx context.Context) (Overview, error) {
	stats, err := s.orders.GetStats(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("order stats: %w", err)
	}
	users, err := s.customers.CountProfiles(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("count customers: %w", err)
	}
	products, err := s.catalog.CountProducts(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("count products: %w", err)
	}
	return Overview{
		TotalOrders:   stats.TotalOrders,
		TotalRevenue:  stats.TotalRevenue,
		TotalUsers:    users,
		TotalProducts: products,
	}, nil
}
