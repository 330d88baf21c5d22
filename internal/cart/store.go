package cart

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

// ErrCorruptCart is returned when the stored list cannot be decoded.
var ErrCorruptCart = errors.New("stored cart is corrupt")

// Store persists the flat per-unit list for a cart session. Writes replace the
// whole list.
type Store interface {
	Read(ctx context.Context, session string) ([]domain.CartEntry, error)
	Write(ctx context.Context, session string, entries []domain.CartEntry) error
	Clear(ctx context.Context, session string) error
}

type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = redisx.TTLCart
	}
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Read(ctx context.Context, session string) ([]domain.CartEntry, error) {
	var entries []domain.CartEntry
	_, err := redisx.GetJSON(ctx, s.client, cartKey(session), &entries)
	if errors.Is(err, redisx.ErrCorruptValue) {
		return nil, fmt.Errorf("%w: %v", ErrCorruptCart, err)
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (s *RedisStore) Write(ctx context.Context, session string, entries []domain.CartEntry) error {
	if len(entries) == 0 {
		return s.Clear(ctx, session)
	}
	return redisx.SetJSON(ctx, s.client, cartKey(session), entries, s.ttl)
}

func (s *RedisStore) Clear(ctx context.Context, session string) error {
	return redisx.Delete(ctx, s.client, cartKey(session))
}

func cartKey(session string) string {
	return fmt.Sprintf(redisx.KeyCart, session)
}

// MemoryStore keeps carts in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	carts map[string][]domain.CartEntry
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{carts: make(map[string][]domain.CartEntry)}
}

func (s *MemoryStore) Read(_ context.Context, session string) ([]domain.CartEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.carts[session]
	out := make([]domain.CartEntry, len(entries))
	copy(out, entries)
	return out, nil
}

func (s *MemoryStore) Write(_ context.Context, session string, entries []domain.CartEntry) error {
	out := make([]domain.CartEntry, len(entries))
	copy(out, entries)
	s.mu.Lock()
	s.carts[session] = out
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, session string) error {
	s.mu.Lock()
	delete(s.carts, session)
	s.mu.Unlock()
	return nil
}
