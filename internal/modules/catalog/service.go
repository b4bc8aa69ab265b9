package catalog

import "context"

// Service defines the catalog read surface.
type Service interface {
	ListProducts(ctx context.Context) ([]*Product, error)
	CountProducts(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new catalog service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListProducts(ctx context.Context) ([]*Product, error) {
	return s.repo.List(ctx)
}

func (s *service) CountProducts(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
