package pricing

import (
	"github.com/shopspring/decimal"
	"legato/internal/domain"
)

const (
	DefaultFreeShippingThreshold int64 = 50000
	DefaultFlatShippingFee       int64 = 500
)

// DefaultTaxRate is the flat GST rate applied to the subtotal.
var DefaultTaxRate = decimal.RequireFromString("0.18")

// Config holds the shipping and tax parameters.
type Config struct {
	FreeShippingThreshold int64
	FlatShippingFee       int64
	TaxRate               decimal.Decimal
}

func DefaultConfig() Config {
	return Config{
		FreeShippingThreshold: DefaultFreeShippingThreshold,
		FlatShippingFee:       DefaultFlatShippingFee,
		TaxRate:               DefaultTaxRate,
	}
}

// ComputeTotals prices a set of line items. Shipping is waived only when the
// subtotal is strictly above the threshold. Tax is rounded half away from zero
// to the nearest whole unit.
func ComputeTotals(items []domain.LineItem, cfg Config) domain.OrderTotals {
	var subtotal int64
	for _, item := range items {
		subtotal += item.LineTotal()
	}

	shipping := cfg.FlatShippingFee
	if subtotal > cfg.FreeShippingThreshold {
		shipping = 0
	}

	tax := decimal.NewFromInt(subtotal).Mul(cfg.TaxRate).Round(0).IntPart()

	return domain.OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}
