package stats

import (
	"context"
	"time"
)

// Window bounds a query by time, From inclusive and To exclusive. A zero
// bound is open.
type Window struct {
	From time.Time
	To   time.Time
}

// MonthTotal is the order revenue of one calendar month (UTC).
type MonthTotal struct {
	Month   time.Time
	Revenue int64
	Orders  int64
}

// Repository answers the aggregate queries behind the admin dashboard.
type Repository interface {
	Orders(ctx context.Context, w Window) (revenue, count int64, err error)
	ApprovedListings(ctx context.Context, w Window) (int64, error)
	Users(ctx context.Context, w Window) (int64, error)
	PendingReviews(ctx context.Context) (int64, error)
	MonthlyRevenue(ctx context.Context, since time.Time) ([]MonthTotal, error)
}
