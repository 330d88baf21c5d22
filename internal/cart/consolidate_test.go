package cart

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"legato/internal/domain"
)

func entry(id string, price int64) domain.CartEntry {
	return domain.CartEntry{ID: id, Name: "Item " + id, Price: price, Seller: domain.Seller{Name: "seller-" + id}}
}

func quantities(items []domain.LineItem) map[string]int {
	out := make(map[string]int, len(items))
	for _, item := range items {
		out[item.ID] += item.Quantity
	}
	return out
}

func TestConsolidate_GroupsInFirstSeenOrder(t *testing.T) {
	flat := []domain.CartEntry{entry("A", 25000), entry("B", 10000), entry("A", 25000)}

	items := Consolidate(flat)

	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, int64(25000), items[0].Price)
	assert.Equal(t, "B", items[1].ID)
	assert.Equal(t, 1, items[1].Quantity)
}

func TestConsolidate_CopiesFieldsFromFirstOccurrence(t *testing.T) {
	first := entry("A", 100)
	first.AddedAt = "2026-01-01T00:00:00Z"
	second := entry("A", 100)
	second.AddedAt = "2026-02-01T00:00:00Z"

	items := Consolidate([]domain.CartEntry{first, second})

	require.Len(t, items, 1)
	assert.Equal(t, first.AddedAt, items[0].AddedAt)
}

func TestConsolidate_Empty(t *testing.T) {
	items := Consolidate(nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestConsolidate_GroupingProperty(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for round := 0; round < 50; round++ {
		n := rng.Intn(40)
		ids := map[string]bool{}
		flat := make([]domain.CartEntry, 0, n)
		for i := 0; i < n; i++ {
			id := fmt.Sprintf("p%d", rng.Intn(8))
			ids[id] = true
			flat = append(flat, entry(id, int64(rng.Intn(1000))))
		}

		items := Consolidate(flat)

		assert.Len(t, items, len(ids))
		assert.Equal(t, n, Count(items))
	}
}

func TestFlatten_RoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for round := 0; round < 50; round++ {
		flat := make([]domain.CartEntry, 0)
		for i := 0; i < rng.Intn(30); i++ {
			flat = append(flat, entry(fmt.Sprintf("p%d", rng.Intn(6)), 10))
		}
		items := Consolidate(flat)

		again := Consolidate(Flatten(items, now))

		assert.Equal(t, quantities(items), quantities(again))
	}
}

func TestFlatten_StampsAddedAtAndCopies(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	items := []domain.LineItem{{CartEntry: entry("A", 5), Quantity: 3}}

	flat := Flatten(items, now)

	require.Len(t, flat, 3)
	for _, e := range flat {
		assert.Equal(t, "2026-03-01T12:00:00Z", e.AddedAt)
		assert.Equal(t, "A", e.ID)
	}
	flat[0].Name = "changed"
	assert.Equal(t, "Item A", flat[1].Name)
	assert.Equal(t, "Item A", items[0].Name)
}

func TestFlatten_SkipsNonPositiveQuantities(t *testing.T) {
	items := []domain.LineItem{{CartEntry: entry("A", 5), Quantity: 0}, {CartEntry: entry("B", 5), Quantity: -2}}
	assert.Empty(t, Flatten(items, time.Now()))
}

func TestUpdateQuantity(t *testing.T) {
	items := []domain.LineItem{{CartEntry: entry("A", 5), Quantity: 2}, {CartEntry: entry("B", 7), Quantity: 1}}

	updated, err := UpdateQuantity(items, "B", 4)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"A": 2, "B": 4}, quantities(updated))
	assert.Equal(t, 1, items[1].Quantity, "input must not be mutated")

	for _, n := range []int{0, -1} {
		removed, err := UpdateQuantity(items, "A", n)
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"B": 1}, quantities(removed))
	}

	_, err = UpdateQuantity(items, "missing", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRemove(t *testing.T) {
	items := []domain.LineItem{{CartEntry: entry("A", 5), Quantity: 2}}

	out, err := Remove(items, "A")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = Remove(items, "B")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
