package domain

import "time"

type ProductStatus string

const (
	ProductPending  ProductStatus = "pending"
	ProductApproved ProductStatus = "approved"
	ProductRejected ProductStatus = "rejected"
)

// MaxPrice caps a listing price so that cart and order totals stay far from
// int64 overflow.
const MaxPrice int64 = 10_000_000

// ValidPrice reports whether p is an acceptable listing price.
func ValidPrice(p int64) bool {
	return p > 0 && p <= MaxPrice
}

// DefaultRejectionReason is recorded when an admin rejects without a reason.
const DefaultRejectionReason = "No reason provided"

var validConditions = map[string]bool{
	"new":      true,
	"like-new": true,
	"good":     true,
	"fair":     true,
}

// ValidCondition reports whether c is one of the accepted item conditions.
func ValidCondition(c string) bool {
	return validConditions[c]
}

// Product is a catalog listing. Seller submissions start as pending and are
// moved to approved or rejected exactly once.
type Product struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Description     string        `json:"description,omitempty"`
	Price           int64         `json:"price"`
	Category        string        `json:"category"`
	Condition       string        `json:"condition"`
	ImageURL        string        `json:"imageUrl,omitempty"`
	SellerName      string        `json:"sellerName"`
	SellerEmail     string        `json:"sellerEmail,omitempty"`
	Status          ProductStatus `json:"status"`
	RejectionReason string        `json:"rejectionReason,omitempty"`
	SubmittedAt     time.Time     `json:"submittedAt"`
	ApprovedAt      *time.Time    `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time    `json:"rejectedAt,omitempty"`
}

// ProductFilter narrows catalog searches. Zero values mean "no constraint".
type ProductFilter struct {
	Category  string
	Condition string
	MinPrice  *int64
	MaxPrice  *int64
	Text      string
	Sort      string
	Limit     int
}

const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// CategorySummary is a category name with the number of live listings in it.
type CategorySummary struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// SellerSummary is a seller with the number of live listings.
type SellerSummary struct {
	Name     string `json:"name"`
	Listings int    `json:"listings"`
}
