package user

import (
	"context"

	"legato/internal/domain"
)

// Repository persists and fetches marketplace users.
type Repository interface {
	Create(ctx context.Context, u domain.User) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	List(ctx context.Context, limit int) ([]domain.User, error)
}
