package wishlist

import (
	"context"
	"strings"
	"time"

	"legato/internal/domain"
)

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{store: store, now: time.Now}
}

func (s *Service) List(ctx context.Context, session string) ([]domain.WishlistEntry, error) {
	entries, err := s.store.Read(ctx, session)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []domain.WishlistEntry{}
	}
	return entries, nil
}

// Add saves entry. Saving an id that is already present is a no-op.
func (s *Service) Add(ctx context.Context, session string, entry domain.WishlistEntry) ([]domain.WishlistEntry, error) {
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.ID == "" {
		return nil, domain.NewValidationError("id", "Product id is required")
	}
	entries, err := s.List(ctx, session)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.ID == entry.ID {
			return entries, nil
		}
	}
	entry.AddedAt = s.now().UTC().Format(time.RFC3339)
	entries = append(entries, entry)
	if err := s.store.Write(ctx, session, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *Service) Remove(ctx context.Context, session, id string) ([]domain.WishlistEntry, error) {
	entries, err := s.List(ctx, session)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WishlistEntry, 0, len(entries))
	for _, e := range entries {
		if e.ID != id {
			out = append(out, e)
		}
	}
	if len(out) == len(entries) {
		return nil, domain.ErrNotFound
	}
	if err := s.store.Write(ctx, session, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Service) Clear(ctx context.Context, session string) error {
	return s.store.Write(ctx, session, nil)
}
