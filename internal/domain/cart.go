package domain

import "encoding/json"

// Seller identifies who listed an item. Stored carts carry either a bare name
// string or an object with a name field; both decode into Seller.
type Seller struct {
	Name string `json:"name"`
}

func (s *Seller) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		s.Name = name
		return nil
	}
	type plain Seller
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	*s = Seller(p)
	return nil
}

// CartEntry is one purchased unit as persisted in the cart store.
type CartEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Seller    Seller `json:"seller"`
	Category  string `json:"category,omitempty"`
	Condition string `json:"condition,omitempty"`
	AddedAt   string `json:"addedAt"`
}

// LineItem is a CartEntry grouped with its unit count. It is never persisted.
type LineItem struct {
	CartEntry
	Quantity int `json:"quantity"`
}

// LineTotal is price times quantity.
func (l LineItem) LineTotal() int64 {
	return l.Price * int64(l.Quantity)
}

// OrderTotals holds derived amounts in whole currency units.
type OrderTotals struct {
	Subtotal int64 `json:"subtotal"`
	Shipping int64 `json:"shipping"`
	Tax      int64 `json:"tax"`
	Total    int64 `json:"total"`
}

// WishlistEntry is a product snapshot saved for later.
type WishlistEntry struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	ImageURL  string `json:"imageUrl,omitempty"`
	Seller    Seller `json:"seller"`
	Category  string `json:"category,omitempty"`
	Condition string `json:"condition,omitempty"`
	AddedAt   string `json:"addedAt"`
}
