package wishlist

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"legato/internal/domain"
	"legato/internal/redisx"
)

// Store persists a session's saved items as one list.
type Store interface {
	Read(ctx context.Context, session string) ([]domain.WishlistEntry, error)
	Write(ctx context.Context, session string, entries []domain.WishlistEntry) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = redisx.TTLWishlist
	}
	return &RedisStore{client: client, ttl: ttl}
}

// Read returns the stored list. A corrupt value reads as empty.
func (s *RedisStore) Read(ctx context.Context, session string) ([]domain.WishlistEntry, error) {
	var entries []domain.WishlistEntry
	_, err := redisx.GetJSON(ctx, s.client, key(session), &entries)
	if errors.Is(err, redisx.ErrCorruptValue) {
		return []domain.WishlistEntry{}, nil
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *RedisStore) Write(ctx context.Context, session string, entries []domain.WishlistEntry) error {
	if len(entries) == 0 {
		return redisx.Delete(ctx, s.client, key(session))
	}
	return redisx.SetJSON(ctx, s.client, key(session), entries, s.ttl)
}

func key(session string) string {
	return fmt.Sprintf(redisx.KeyWishlist, session)
}

type MemoryStore struct {
	mu    sync.RWMutex
	lists map[string][]domain.WishlistEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{lists: make(map[string][]domain.WishlistEntry)}
}

func (s *MemoryStore) Read(_ context.Context, session string) ([]domain.WishlistEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.WishlistEntry, len(s.lists[session]))
	copy(out, s.lists[session])
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, session string, entries []domain.WishlistEntry) error {
	out := make([]domain.WishlistEntry, len(entries))
	copy(out, entries)
	s.mu.Lock()
	s.lists[session] = out
	s.mu.Unlock()
	return nil
}
