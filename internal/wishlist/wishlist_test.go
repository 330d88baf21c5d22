package wishlist

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"legato/internal/domain"
)

func newRedisService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewService(NewRedisStore(client, time.Hour)), mr
}

func TestService_AddIsIdempotent(t *testing.T) {
	svc, mr := newRedisService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", domain.WishlistEntry{ID: "A", Name: "Sitar", Price: 40000})
	require.NoError(t, err)
	list, err := svc.Add(ctx, "s1", domain.WishlistEntry{ID: "A", Name: "Sitar", Price: 40000})
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.NotEmpty(t, list[0].AddedAt)

	assert.True(t, mr.Exists("legato-wishlist:s1"))
	assert.Equal(t, time.Hour, mr.TTL("legato-wishlist:s1"))
}

func TestService_RemoveAndClear(t *testing.T) {
	svc, mr := newRedisService(t)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s1", domain.WishlistEntry{ID: "A"})
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s1", domain.WishlistEntry{ID: "B"})
	require.NoError(t, err)

	list, err := svc.Remove(ctx, "s1", "A")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "B", list[0].ID)

	_, err = svc.Remove(ctx, "s1", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, svc.Clear(ctx, "s1"))
	assert.False(t, mr.Exists("legato-wishlist:s1"))

	list, err = svc.List(ctx, "s1")
	require.NoError(t, err)
	assert.NotNil(t, list)
	assert.Empty(t, list)
}

func TestService_RejectsMissingID(t *testing.T) {
	svc := NewService(NewMemoryStore())
	_, err := svc.Add(context.Background(), "s1", domain.WishlistEntry{Name: "no id"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRedisStore_CorruptValueReadsEmpty(t *testing.T) {
	svc, mr := newRedisService(t)
	require.NoError(t, mr.Set("legato-wishlist:s1", "{not json"))

	list, err := svc.List(context.Background(), "s1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
