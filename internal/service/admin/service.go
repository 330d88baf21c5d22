package admin

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"legato/internal/domain"
	productrepo "legato/internal/repository/product"
	statsrepo "legato/internal/repository/stats"
	userrepo "legato/internal/repository/user"
)

const (
	pendingLimit      = 200
	defaultRecent     = 10
	maxRecent         = 100
	rosterLimit       = 500
	DefaultMonths     = 6
	maxMonths         = 24
	DefaultRefresh    = 5 * time.Minute
	comparisonWindow  = 30 * 24 * time.Hour
	revenueMonthLabel = "Jan 2006"
)

// Service backs the admin dashboard: moderation queue, headline stats and
// reporting.
type Service struct {
	products productrepo.Repository
	users    userrepo.Repository
	stats    statsrepo.Repository
	logger   *log.Logger
	now      func() time.Time

	mu       sync.RWMutex
	snapshot *domain.DashboardStats
	gen      uint64
	maxAge   time.Duration
}

func New(products productrepo.Repository, users userrepo.Repository, stats statsrepo.Repository, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Service{
		products: products,
		users:    users,
		stats:    stats,
		logger:   logger,
		now:      time.Now,
		maxAge:   2 * DefaultRefresh,
	}
}

// ListPending returns submissions awaiting review, newest first.
func (s *Service) ListPending(ctx context.Context) ([]domain.Product, error) {
	return s.products.ListByStatus(ctx, domain.ProductPending, pendingLimit)
}

// Approve publishes a pending listing. Unknown ids give domain.ErrNotFound and
// already reviewed listings give domain.ErrConflict.
func (s *Service) Approve(ctx context.Context, id string) (*domain.Product, error) {
	p, err := s.products.Approve(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("admin: approved product id=%s name=%q", p.ID, p.Name)
	s.invalidate()
	return p, nil
}

// Reject declines a pending listing. An empty reason is recorded as
// domain.DefaultRejectionReason.
func (s *Service) Reject(ctx context.Context, id, reason string) (*domain.Product, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = domain.DefaultRejectionReason
	}
	p, err := s.products.Reject(ctx, id, reason)
	if err != nil {
		return nil, err
	}
	s.logger.Printf("admin: rejected product id=%s reason=%q", p.ID, reason)
	s.invalidate()
	return p, nil
}

// RecentListings returns the latest approved listings.
func (s *Service) RecentListings(ctx context.Context, limit int) ([]domain.Product, error) {
	switch {
	case limit <= 0:
		limit = defaultRecent
	case limit > maxRecent:
		limit = maxRecent
	}
	return s.products.ListByStatus(ctx, domain.ProductApproved, limit)
}

// Users returns the account roster without credentials.
func (s *Service) Users(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx, rosterLimit)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}

// Revenue returns one point per calendar month, oldest first, ending with the
// current month. Months without orders are reported as zero.
func (s *Service) Revenue(ctx context.Context, months int) ([]domain.RevenuePoint, error) {
	switch {
	case months <= 0:
		months = DefaultMonths
	case months > maxMonths:
		months = maxMonths
	}
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	totals, err := s.stats.MonthlyRevenue(ctx, start)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[string]statsrepo.MonthTotal, len(totals))
	for _, t := range totals {
		byMonth[t.Month.UTC().Format(revenueMonthLabel)] = t
	}

	out := make([]domain.RevenuePoint, 0, months)
	for i := 0; i < months; i++ {
		label := start.AddDate(0, i, 0).Format(revenueMonthLabel)
		t := byMonth[label]
		out = append(out, domain.RevenuePoint{Month: label, Revenue: t.Revenue, Orders: t.Orders})
	}
	return out, nil
}
