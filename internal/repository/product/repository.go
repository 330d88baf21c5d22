package product

import (
	"context"

	"legato/internal/domain"
)

// Repository persists catalog listings and their moderation state.
type Repository interface {
	Search(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Create(ctx context.Context, p domain.Product) (*domain.Product, error)
	Upsert(ctx context.Context, p domain.Product) (*domain.Product, error)
	ListByStatus(ctx context.Context, status domain.ProductStatus, limit int) ([]domain.Product, error)
	Approve(ctx context.Context, id string) (*domain.Product, error)
	Reject(ctx context.Context, id, reason string) (*domain.Product, error)
	Categories(ctx context.Context, query string) ([]domain.CategorySummary, error)
	Sellers(ctx context.Context, query string) ([]domain.SellerSummary, error)
}
