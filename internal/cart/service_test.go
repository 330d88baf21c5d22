package cart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"legato/internal/domain"
	"legato/internal/pricing"
)

type failingStore struct {
	*MemoryStore
	readErr  error
	writeErr error
	writes   int
}

func (s *failingStore) Read(ctx context.Context, session string) ([]domain.CartEntry, error) {
	if s.readErr != nil {
		return nil, s.readErr
	}
	return s.MemoryStore.Read(ctx, session)
}

func (s *failingStore) Write(ctx context.Context, session string, entries []domain.CartEntry) error {
	s.writes++
	if s.writeErr != nil {
		return s.writeErr
	}
	return s.MemoryStore.Write(ctx, session, entries)
}

type stubCatalog struct {
	products map[string]*domain.Product
	err      error
}

func (c *stubCatalog) GetByID(_ context.Context, id string) (*domain.Product, error) {
	if c.err != nil {
		return nil, c.err
	}
	p, ok := c.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func listing(id string, price int64) *domain.Product {
	return &domain.Product{
		ID: id, Name: "Item " + id, Price: price, SellerName: "seller-" + id,
		Category: "Guitars", Condition: "good", Status: domain.ProductApproved,
	}
}

func catalogOf(products ...*domain.Product) *stubCatalog {
	c := &stubCatalog{products: map[string]*domain.Product{}}
	for _, p := range products {
		c.products[p.ID] = p
	}
	return c
}

// defaultCatalog holds the approved listings most tests add from.
func defaultCatalog() *stubCatalog {
	return catalogOf(listing("A", 25000), listing("B", 10000), listing("C", 333), listing("D", 100), listing("E", 100))
}

func newTestService(store Store) *Service {
	return newLimitedService(store, defaultCatalog(), Limits{})
}

func newLimitedService(store Store, catalog Catalog, limits Limits) *Service {
	svc := NewService(store, catalog, pricing.DefaultConfig(), limits, nil)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 30, 0, 0, time.UTC) }
	return svc
}

func TestService_AddAppendsOneEntryPerUnit(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	_, err := svc.Add(ctx, "s", "A", 2)
	require.NoError(t, err)
	summary, err := svc.Add(ctx, "s", "B", 1)
	require.NoError(t, err)

	raw, err := store.Read(ctx, "s")
	require.NoError(t, err)
	assert.Len(t, raw, 3)
	for _, e := range raw {
		assert.Equal(t, "2026-05-01T09:30:00Z", e.AddedAt)
	}
	assert.Equal(t, "seller-A", raw[0].Seller.Name)
	assert.Equal(t, "good", raw[0].Condition)

	assert.Equal(t, 3, summary.ItemCount)
	assert.Equal(t, domain.OrderTotals{Subtotal: 60000, Shipping: 0, Tax: 10800, Total: 70800}, summary.Totals)
}

func TestService_AddValidation(t *testing.T) {
	svc := newTestService(NewMemoryStore())
	ctx := context.Background()

	_, err := svc.Add(ctx, "s", " ", 1)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.Add(ctx, "s", "A", 0)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)

	_, err = svc.Add(ctx, "s", "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestService_AddUsesStoredListing(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()

	summary, err := svc.Add(ctx, "s", "B", 1)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, int64(10000), summary.Items[0].Price)
	assert.Equal(t, "Item B", summary.Items[0].Name)
}

func TestService_AddHidesUnapprovedListings(t *testing.T) {
	pending := listing("P", 100)
	pending.Status = domain.ProductPending
	rejected := listing("R", 100)
	rejected.Status = domain.ProductRejected
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := newLimitedService(store, catalogOf(pending, rejected), Limits{})

	for _, id := range []string{"P", "R"} {
		_, err := svc.Add(context.Background(), "s", id, 1)
		assert.ErrorIs(t, err, domain.ErrNotFound, id)
	}
	assert.Zero(t, store.writes)
}

func TestService_AddRejectsOutOfRangePrice(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := newLimitedService(store, catalogOf(listing("B", 4_000_000_000_000_000_000), listing("Z", 0)), Limits{})

	for _, id := range []string{"B", "Z"} {
		_, err := svc.Add(context.Background(), "s", id, 3)
		var vErr *domain.ValidationError
		require.True(t, errors.As(err, &vErr), id)
		assert.Equal(t, "price", vErr.Field)
	}
	assert.Zero(t, store.writes)
}

func TestService_TotalsStayPositiveAtLimits(t *testing.T) {
	limits := Limits{MaxLineQuantity: HardMaxEntries, MaxEntries: HardMaxEntries}
	svc := newLimitedService(NewMemoryStore(), catalogOf(listing("A", domain.MaxPrice)), limits)

	summary, err := svc.Add(context.Background(), "s", "A", HardMaxEntries)
	require.NoError(t, err)
	assert.Equal(t, domain.MaxPrice*HardMaxEntries, summary.Totals.Subtotal)
	assert.Greater(t, summary.Totals.Total, summary.Totals.Subtotal)
}

func TestService_AddEnforcesLineLimit(t *testing.T) {
	store := NewMemoryStore()
	svc := newLimitedService(store, defaultCatalog(), Limits{MaxLineQuantity: 3, MaxEntries: 10})
	ctx := context.Background()

	_, err := svc.Add(ctx, "s", "A", 4)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)

	_, err = svc.Add(ctx, "s", "A", 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s", "A", 2)
	assert.ErrorIs(t, err, domain.ErrValidation)

	raw, _ := store.Read(ctx, "s")
	assert.Len(t, raw, 2)
}

func TestService_AddEnforcesEntryLimit(t *testing.T) {
	store := NewMemoryStore()
	svc := newLimitedService(store, defaultCatalog(), Limits{MaxLineQuantity: 3, MaxEntries: 5})
	ctx := context.Background()

	_, err := svc.Add(ctx, "s", "A", 3)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s", "B", 2)
	require.NoError(t, err)

	_, err = svc.Add(ctx, "s", "C", 1)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)

	raw, _ := store.Read(ctx, "s")
	assert.Len(t, raw, 5)
}

func TestService_UpdateQuantityEnforcesLimits(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := newLimitedService(store, defaultCatalog(), Limits{MaxLineQuantity: 4, MaxEntries: 6})
	ctx := context.Background()
	_, err := svc.Add(ctx, "s", "A", 3)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s", "B", 3)
	require.NoError(t, err)
	writes := store.writes

	_, err = svc.UpdateQuantity(ctx, "s", "A", 1<<40)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = svc.UpdateQuantity(ctx, "s", "A", 4)
	var vErr *domain.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "quantity", vErr.Field)
	assert.Equal(t, writes, store.writes)

	summary, err := svc.UpdateQuantity(ctx, "s", "A", 2)
	require.NoError(t, err)
	assert.Equal(t, 5, summary.ItemCount)
}

func TestLimits_Normalized(t *testing.T) {
	assert.Equal(t, Limits{MaxLineQuantity: DefaultMaxLineQuantity, MaxEntries: DefaultMaxEntries}, Limits{}.normalized())
	assert.Equal(t, Limits{MaxLineQuantity: 5, MaxEntries: 5}, Limits{MaxLineQuantity: 50, MaxEntries: 5}.normalized())
	assert.Equal(t, Limits{MaxLineQuantity: HardMaxEntries, MaxEntries: HardMaxEntries}, Limits{MaxLineQuantity: 1 << 30, MaxEntries: 1 << 30}.normalized())
}

func TestService_UpdateQuantityWritesThrough(t *testing.T) {
	store := NewMemoryStore()
	svc := newTestService(store)
	ctx := context.Background()
	_, err := svc.Add(ctx, "s", "D", 1)
	require.NoError(t, err)

	summary, err := svc.UpdateQuantity(ctx, "s", "D", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, summary.ItemCount)

	raw, _ := store.Read(ctx, "s")
	assert.Len(t, raw, 4)
}

func TestService_UpdateToCurrentQuantityKeepsTotals(t *testing.T) {
	svc := newTestService(NewMemoryStore())
	ctx := context.Background()
	before, err := svc.Add(ctx, "s", "C", 3)
	require.NoError(t, err)

	after, err := svc.UpdateQuantity(ctx, "s", "C", 3)
	require.NoError(t, err)
	assert.Equal(t, before.Totals, after.Totals)
}

func TestService_UpdateQuantityFloorRemoves(t *testing.T) {
	svc := newTestService(NewMemoryStore())
	ctx := context.Background()
	_, err := svc.Add(ctx, "s", "D", 2)
	require.NoError(t, err)
	_, err = svc.Add(ctx, "s", "E", 1)
	require.NoError(t, err)

	summary, err := svc.UpdateQuantity(ctx, "s", "D", -3)
	require.NoError(t, err)
	require.Len(t, summary.Items, 1)
	assert.Equal(t, "E", summary.Items[0].ID)
}

func TestService_RemoveUnknown(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore()}
	svc := newTestService(store)

	_, err := svc.Remove(context.Background(), "s", "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, store.writes)
}

func TestService_ClearIsIdempotent(t *testing.T) {
	svc := newTestService(NewMemoryStore())
	ctx := context.Background()
	_, err := svc.Add(ctx, "s", "D", 1)
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "s"))
	require.NoError(t, svc.Clear(ctx, "s"))

	items, err := svc.Items(ctx, "s")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestService_CorruptCartReadsEmpty(t *testing.T) {
	store := &failingStore{MemoryStore: NewMemoryStore(), readErr: ErrCorruptCart}
	svc := newTestService(store)

	summary, err := svc.Summary(context.Background(), "s")
	require.NoError(t, err)
	assert.Empty(t, summary.Items)
	assert.Equal(t, int64(500), summary.Totals.Total)
}

func TestService_StoreErrorsPropagate(t *testing.T) {
	boom := errors.New("boom")
	svc := newTestService(&failingStore{MemoryStore: NewMemoryStore(), writeErr: boom})

	_, err := svc.Add(context.Background(), "s", "A", 1)
	assert.ErrorIs(t, err, boom)

	svc = newLimitedService(NewMemoryStore(), &stubCatalog{err: boom}, Limits{})
	_, err = svc.Add(context.Background(), "s", "A", 1)
	assert.ErrorIs(t, err, boom)
}
