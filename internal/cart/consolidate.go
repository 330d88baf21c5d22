package cart

import (
	"time"

	"legato/internal/domain"
)

// Consolidate groups per-unit entries into line items, keeping the order in
// which each product id was first seen. Fields come from the first occurrence.
func Consolidate(entries []domain.CartEntry) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(entries))
	index := make(map[string]int, len(entries))
	for _, e := range entries {
		if pos, ok := index[e.ID]; ok {
			items[pos].Quantity++
			continue
		}
		index[e.ID] = len(items)
		items = append(items, domain.LineItem{CartEntry: e, Quantity: 1})
	}
	return items
}

// Flatten expands line items back into one entry per unit, all stamped with now.
func Flatten(items []domain.LineItem, now time.Time) []domain.CartEntry {
	addedAt := now.UTC().Format(time.RFC3339)
	total := 0
	for _, item := range items {
		if item.Quantity > 0 {
			total += item.Quantity
		}
	}
	entries := make([]domain.CartEntry, 0, total)
	for _, item := range items {
		for i := 0; i < item.Quantity; i++ {
			entry := item.CartEntry
			entry.AddedAt = addedAt
			entries = append(entries, entry)
		}
	}
	return entries
}

// UpdateQuantity returns a copy of items with the quantity of id set to n.
// A quantity of zero or less removes the line.
func UpdateQuantity(items []domain.LineItem, id string, n int) ([]domain.LineItem, error) {
	if n <= 0 {
		return Remove(items, id)
	}
	out := make([]domain.LineItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].Quantity = n
			return out, nil
		}
	}
	return nil, domain.ErrNotFound
}

// Remove returns a copy of items without the line for id.
func Remove(items []domain.LineItem, id string) ([]domain.LineItem, error) {
	out := make([]domain.LineItem, 0, len(items))
	found := false
	for _, item := range items {
		if item.ID == id {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

// Count is the total number of units across all lines.
func Count(items []domain.LineItem) int {
	n := 0
	for _, item := range items {
		n += item.Quantity
	}
	return n
}
