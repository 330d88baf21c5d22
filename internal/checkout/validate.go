package checkout

import (
	"strings"

	"legato/internal/domain"
)

// Request is what the checkout form submits.
type Request struct {
	Address       domain.ShippingAddress `json:"address"`
	PaymentMethod domain.PaymentMethod   `json:"paymentMethod"`
}

type requiredField struct {
	name  string
	label string
	value func(domain.ShippingAddress) string
}

var requiredFields = []requiredField{
	{"fullName", "Full name", func(a domain.ShippingAddress) string { return a.FullName }},
	{"phone", "Phone number", func(a domain.ShippingAddress) string { return a.Phone }},
	{"email", "Email", func(a domain.ShippingAddress) string { return a.Email }},
	{"addressLine1", "Address line 1", func(a domain.ShippingAddress) string { return a.AddressLine1 }},
	{"city", "City", func(a domain.ShippingAddress) string { return a.City }},
	{"state", "State", func(a domain.ShippingAddress) string { return a.State }},
	{"pincode", "Pincode", func(a domain.ShippingAddress) string { return a.Pincode }},
}

// Validate checks the form and the cart. It reports the first failing field.
func Validate(req Request, items []domain.LineItem) *domain.ValidationError {
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(req.Address)) == "" {
			return domain.NewValidationError(f.name, f.label+" is required")
		}
	}
	if !req.PaymentMethod.Valid() {
		return domain.NewValidationError("paymentMethod", "choose card, upi, netbanking or cod")
	}
	if len(items) == 0 {
		return domain.NewValidationError("cart", "Your cart is empty")
	}
	return nil
}
