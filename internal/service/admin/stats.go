package admin

import (
	"context"
	"math"
	"time"

	"golang.org/x/sync/errgroup"
	"legato/internal/domain"
	statsrepo "legato/internal/repository/stats"
)

// Stats returns the dashboard figures, from the refresher's snapshot when it
// is fresh enough and from a live computation otherwise.
func (s *Service) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	s.mu.RLock()
	snap := s.snapshot
	maxAge := s.maxAge
	s.mu.RUnlock()
	if snap != nil && s.now().Sub(snap.GeneratedAt) < maxAge {
		out := *snap
		return &out, nil
	}
	return s.Refresh(ctx)
}

// Refresh recomputes the stats and stores them as the current snapshot. A
// result computed across a moderation change is returned but not stored.
func (s *Service) Refresh(ctx context.Context) (*domain.DashboardStats, error) {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()

	st, err := s.ComputeStats(ctx)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	if s.gen == gen {
		s.snapshot = st
	}
	s.mu.Unlock()
	out := *st
	return &out, nil
}

// ComputeStats runs every dashboard query concurrently.
func (s *Service) ComputeStats(ctx context.Context) (*domain.DashboardStats, error) {
	now := s.now().UTC()
	current := statsrepo.Window{From: now.Add(-comparisonWindow)}
	previous := statsrepo.Window{From: now.Add(-2 * comparisonWindow), To: now.Add(-comparisonWindow)}

	var (
		st                                   domain.DashboardStats
		revNow, revPrev, txNow, txPrev       int64
		listNow, listPrev, userNow, userPrev int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		st.TotalRevenue, st.Transactions, err = s.stats.Orders(gctx, statsrepo.Window{})
		return err
	})
	g.Go(func() (err error) {
		revNow, txNow, err = s.stats.Orders(gctx, current)
		return err
	})
	g.Go(func() (err error) {
		revPrev, txPrev, err = s.stats.Orders(gctx, previous)
		return err
	})
	g.Go(func() (err error) {
		st.ActiveListings, err = s.stats.ApprovedListings(gctx, statsrepo.Window{})
		return err
	})
	g.Go(func() (err error) {
		listNow, err = s.stats.ApprovedListings(gctx, current)
		return err
	})
	g.Go(func() (err error) {
		listPrev, err = s.stats.ApprovedListings(gctx, previous)
		return err
	})
	g.Go(func() (err error) {
		st.TotalUsers, err = s.stats.Users(gctx, statsrepo.Window{})
		return err
	})
	g.Go(func() (err error) {
		userNow, err = s.stats.Users(gctx, current)
		return err
	})
	g.Go(func() (err error) {
		userPrev, err = s.stats.Users(gctx, previous)
		return err
	})
	g.Go(func() (err error) {
		st.PendingReviews, err = s.stats.PendingReviews(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Printf("admin: compute stats error=%v", err)
		return nil, err
	}

	st.RevenueChange = percentChange(revNow, revPrev)
	st.TransactionsChange = percentChange(txNow, txPrev)
	st.ListingsChange = percentChange(listNow, listPrev)
	st.UsersChange = percentChange(userNow, userPrev)
	st.GeneratedAt = now
	return &st, nil
}

// Run refreshes the snapshot every interval until ctx is done.
func (s *Service) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultRefresh
	}
	s.mu.Lock()
	s.maxAge = 2 * interval
	s.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.Refresh(ctx); err != nil && ctx.Err() == nil {
			s.logger.Printf("admin: stats refresh failed: %v", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) invalidate() {
	s.mu.Lock()
	s.snapshot = nil
	s.gen++
	s.mu.Unlock()
}

// percentChange is rounded to one decimal. Growth from zero reports 100.
func percentChange(current, previous int64) float64 {
	if previous == 0 {
		if current == 0 {
			return 0
		}
		return 100
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*10) / 10
}
