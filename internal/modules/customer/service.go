package customer

import "context"

// Service defines the customer directory business logic.
type Service interface {
	ListProfiles(ctx context.Context) ([]*Profile, error)
	CountProfiles(ctx context.Context) (int, error)
}

type service struct {
	repo Repository
}

// NewService creates a new customer service.
func NewService(repo Repository) Service { return &service{repo: repo} }

func (s *service) ListProfiles(ctx context.Context) ([]*Profile, error) {
	return s.repo.List(ctx)
}

func (s *service) CountProfiles(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}
