package order

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ironxpress/admin-backend/internal/modules/customer"
)

// Placeholder customer fields used when the directory lookup fails or the
// customer no longer exists.
const (
	unknownCustomer = "Unknown Customer"
	noEmail         = "No email"
	noPhone         = "No phone"
)

// Filter narrows a listing. Status filters by canonical bucket membership so
// the list agrees with the dashboard counter the admin clicked through from;
// Search is a case-insensitive substring match over customer name, email,
// phone and order id.
type Filter struct {
	Status string
	Search string
	Limit  int
}

// Service is the façade the admin HTTP surface calls into. Authorization is
// enforced by middleware before any of these run.
type Service interface {
	// ListOrders returns all orders newest first, customer fields joined
	// best-effort, optionally filtered.
	ListOrders(ctx context.Context, f Filter) ([]*Order, error)

	// GetStats returns the dashboard counters, recomputing only when a
	// change-feed event has invalidated the cached snapshot.
	GetStats(ctx context.Context) (DashboardStats, error)

	// RecentOrders returns the n newest orders with customer fields joined.
	RecentOrders(ctx context.Context, n int) ([]*Order, error)

	// UpdateStatus validates the transition and writes the new status with a
	// fresh updated_at. Exactly one write per call; a rejected transition is
	// never retried.
	UpdateStatus(ctx context.Context, orderID string, requested Stage) (*Order, error)

	// InvalidateStats marks the cached dashboard snapshot stale. Idempotent;
	// wired to change-feed events.
	InvalidateStats()
}

type service struct {
	repo      Repository
	customers customer.Repository
	log       *logrus.Logger

	mu         sync.RWMutex
	stats      DashboardStats
	statsFresh bool
	statsGen   uint64
}

// NewService creates the order query service.
func NewService(repo Repository, customers customer.Repository, log *logrus.Logger) Service {
	return &service{repo: repo, customers: customers, log: log}
}

func (s *service) ListOrders(ctx context.Context, f Filter) ([]*Order, error) {
	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	s.joinCustomers(ctx, orders)

	if f.Status != "" {
		if stage, ok := ParseStage(f.Status); ok {
			orders = filterOrders(orders, func(o *Order) bool { return inBucket(o, stage) })
		}
	}
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		orders = filterOrders(orders, func(o *Order) bool { return matchesSearch(o, q) })
	}
	if f.Limit > 0 && len(orders) > f.Limit {
		orders = orders[:f.Limit]
	}
	return orders, nil
}

func (s *service) GetStats(ctx context.Context) (DashboardStats, error) {
	s.mu.RLock()
	if s.statsFresh {
		stats := s.stats
		s.mu.RUnlock()
		return stats, nil
	}
	gen := s.statsGen
	s.mu.RUnlock()

	orders, err := s.repo.ListOrders(ctx)
	if err != nil {
		return DashboardStats{}, fmt.Errorf("load orders for stats: %w", err)
	}
	stats := AggregateStats(orders)

	s.mu.Lock()
	// An invalidation that arrived while we were reading means these orders
	// may already be stale: serve the result, but leave the cache cold so
	// the next call recomputes.
	if s.statsGen == gen {
		s.stats = stats
		s.statsFresh = true
	}
	s.mu.Unlock()
	return stats, nil
}

func (s *service) RecentOrders(ctx context.Context, n int) ([]*Order, error) {
	return s.ListOrders(ctx, Filter{Limit: n})
}

func (s *service) UpdateStatus(ctx context.Context, orderID string, requested Stage) (*Order, error) {
	o, err := s.repo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !IsLegalTransition(o, requested) {
		return nil, fmt.Errorf("%w: %s order cannot move to %s",
			ErrIllegalTransition, CanonicalStage(o), requested)
	}
	updated, err := s.repo.UpdateStatus(ctx, orderID, requested, time.Now().UTC())
	if err != nil {
		return nil, err
	}
	s.joinCustomers(ctx, []*Order{updated})
	return updated, nil
}

func (s *service) InvalidateStats() {
	s.mu.Lock()
	s.statsFresh = false
	s.statsGen++
	s.mu.Unlock()
}

// joinCustomers enriches orders with customer display fields. The lookup is
// best-effort: on any failure every order keeps placeholder text and the
// listing proceeds with the full row count.
func (s *service) joinCustomers(ctx context.Context, orders []*Order) {
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, o := range orders {
		if o.UserID == uuid.Nil {
			continue
		}
		if _, ok := seen[o.UserID]; ok {
			continue
		}
		seen[o.UserID] = struct{}{}
		ids = append(ids, o.UserID)
	}

	profiles, err := s.customers.GetByIDs(ctx, ids)
	if err != nil {
		s.log.WithError(err).Warn("customer lookup failed; using placeholders")
		profiles = nil
	}

	for _, o := range orders {
		o.FullName, o.Email, o.Phone = unknownCustomer, noEmail, noPhone
		p := profiles[o.UserID]
		if p == nil {
			continue
		}
		if p.FullName != "" {
			o.FullName = p.FullName
		}
		if p.Email != "" {
			o.Email = p.Email
		}
		if p.Phone != "" {
			o.Phone = p.Phone
		}
	}
}

func inBucket(o *Order, stage Stage) bool {
	switch stage {
	case StagePending:
		return InPendingBucket(o)
	case StageAccepted:
		return InAcceptedBucket(o)
	case StageRejected:
		return InRejectedBucket(o)
	case StageDelivered:
		return CanonicalStage(o) == StageDelivered
	}
	return false
}

func matchesSearch(o *Order, q string) bool {
	return strings.Contains(strings.ToLower(o.FullName), q) ||
		strings.Contains(strings.ToLower(o.Email), q) ||
		strings.Contains(strings.ToLower(o.Phone), q) ||
		strings.Contains(strings.ToLower(o.ID.String()), q)
}

func filterOrders(orders []*Order, keep func(*Order) bool) []*Order {
	filtered := orders[:0:0]
	for _, o := range orders {
		if keep(o) {
			filtered = append(filtered, o)
		}
	}
	return filtered
}
