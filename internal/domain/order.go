package domain

import "time"

type PaymentMethod string

const (
	PaymentCard       PaymentMethod = "card"
	PaymentUPI        PaymentMethod = "upi"
	PaymentNetBanking PaymentMethod = "netbanking"
	PaymentCOD        PaymentMethod = "cod"
)

// Valid reports whether m is one of the supported payment methods.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentUPI, PaymentNetBanking, PaymentCOD:
		return true
	}
	return false
}

// ShippingAddress is collected on the checkout form.
type ShippingAddress struct {
	FullName     string `json:"fullName"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Pincode      string `json:"pincode"`
	Country      string `json:"country"`
}

type Order struct {
	ID              string          `json:"id"`
	SessionID       string          `json:"-"`
	Status          string          `json:"status"`
	PaymentMethod   PaymentMethod   `json:"paymentMethod"`
	ShippingAddress ShippingAddress `json:"shippingAddress"`
	Totals          OrderTotals     `json:"totals"`
	Items           []OrderItem     `json:"items"`
	CreatedAt       time.Time       `json:"createdAt"`
}

type OrderItem struct {
	ProductID string `json:"productId"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int    `json:"quantity"`
}
