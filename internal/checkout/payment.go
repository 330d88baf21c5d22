package checkout

import (
	"context"
	"errors"
	"time"

	"legato/internal/domain"
)

// ErrPaymentFailed is reported when the payment step does not confirm.
var ErrPaymentFailed = errors.New("payment failed, please try again")

// PaymentSimulator stands in for a payment gateway.
type PaymentSimulator interface {
	Confirm(ctx context.Context, method domain.PaymentMethod, amount int64) error
}

// DelaySimulator confirms every payment after a fixed delay.
type DelaySimulator struct {
	Delay time.Duration
}

func (s DelaySimulator) Confirm(ctx context.Context, _ domain.PaymentMethod, _ int64) error {
	if s.Delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(s.Delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
