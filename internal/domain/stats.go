package domain

import "time"

// DashboardStats are the admin dashboard headline figures. The *Change fields
// are percent changes of the last 30 days against the 30 days before.
type DashboardStats struct {
	TotalRevenue       int64     `json:"totalRevenue"`
	ActiveListings     int64     `json:"activeListings"`
	TotalUsers         int64     `json:"totalUsers"`
	Transactions       int64     `json:"transactions"`
	PendingReviews     int64     `json:"pendingReviews"`
	RevenueChange      float64   `json:"revenueChange"`
	ListingsChange     float64   `json:"listingsChange"`
	UsersChange        float64   `json:"usersChange"`
	TransactionsChange float64   `json:"transactionsChange"`
	GeneratedAt        time.Time `json:"generatedAt"`
}

// RevenuePoint is one month of the revenue series.
type RevenuePoint struct {
	Month   string `json:"month"`
	Revenue int64  `json:"revenue"`
	Orders  int64  `json:"orders"`
}
