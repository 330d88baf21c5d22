package checkout

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"legato/internal/domain"
	"legato/internal/pricing"
)

type Cart interface {
	Items(ctx context.Context, session string) ([]domain.LineItem, error)
	Clear(ctx context.Context, session string) error
}

type OrderRecorder interface {
	Create(ctx context.Context, order domain.Order) error
}

type Publisher interface {
	PublishOrderPlaced(ctx context.Context, order domain.Order) error
}

// Confirmation is handed to the order confirmation view.
type Confirmation struct {
	OrderID       string                 `json:"orderId"`
	Items         []domain.LineItem      `json:"items"`
	Totals        domain.OrderTotals     `json:"totals"`
	Address       domain.ShippingAddress `json:"address"`
	PaymentMethod domain.PaymentMethod   `json:"paymentMethod"`
	PlacedAt      time.Time              `json:"placedAt"`
}

type Orchestrator struct {
	cart      Cart
	payments  PaymentSimulator
	orders    OrderRecorder
	publisher Publisher
	pricing   pricing.Config
	logger    *log.Logger
	now       func() time.Time
	newID     func(time.Time) string
}

// Options carries the optional collaborators. Nil recorder or publisher
// skips that step.
type Options struct {
	Orders    OrderRecorder
	Publisher Publisher
	Logger    *log.Logger
}

func NewOrchestrator(cart Cart, payments PaymentSimulator, cfg pricing.Config, opts Options) *Orchestrator {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Orchestrator{
		cart:      cart,
		payments:  payments,
		orders:    opts.Orders,
		publisher: opts.Publisher,
		pricing:   cfg,
		logger:    logger,
		now:       time.Now,
		newID:     func(t time.Time) string { return NewOrderID(t, nil) },
	}
}

// Place runs a fresh checkout flow for the session.
func (o *Orchestrator) Place(ctx context.Context, session string, req Request) (*Confirmation, error) {
	return o.Submit(ctx, NewFlow(), session, req)
}

// Submit drives flow from form entry to a terminal outcome. On validation or
// payment failure the flow is left in FormEntry and the cart is untouched.
func (o *Orchestrator) Submit(ctx context.Context, flow *Flow, session string, req Request) (*Confirmation, error) {
	if flow.State() == StateIdle {
		if err := flow.transition(StateFormEntry); err != nil {
			return nil, err
		}
	}
	if err := flow.transition(StateValidating); err != nil {
		return nil, err
	}

	items, err := o.cart.Items(ctx, session)
	if err != nil {
		_ = flow.transition(StateFormEntry)
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if vErr := Validate(req, items); vErr != nil {
		_ = flow.transition(StateFormEntry)
		return nil, vErr
	}

	if err := flow.transition(StateProcessing); err != nil {
		return nil, err
	}
	totals := pricing.ComputeTotals(items, o.pricing)
	placedAt := o.now().UTC()
	order := domain.Order{
		ID:              o.newID(placedAt),
		SessionID:       session,
		Status:          "placed",
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.Address,
		Totals:          totals,
		Items:           orderItems(items),
		CreatedAt:       placedAt,
	}

	if err := o.process(ctx, order); err != nil {
		_ = flow.transition(StateFailed)
		_ = flow.transition(StateFormEntry)
		o.logger.Printf("checkout: session=%s order=%s failed: %v", session, order.ID, err)
		return nil, err
	}
	if err := flow.transition(StateSucceeded); err != nil {
		return nil, err
	}

	if err := o.cart.Clear(ctx, session); err != nil {
		o.logger.Printf("checkout: session=%s order=%s clear cart error=%v", session, order.ID, err)
	}
	if o.publisher != nil {
		if err := o.publisher.PublishOrderPlaced(ctx, order); err != nil {
			o.logger.Printf("checkout: order=%s publish error=%v", order.ID, err)
		}
	}
	o.logger.Printf("checkout: session=%s order=%s total=%d method=%s", session, order.ID, totals.Total, req.PaymentMethod)

	return &Confirmation{
		OrderID:       order.ID,
		Items:         items,
		Totals:        totals,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		PlacedAt:      placedAt,
	}, nil
}

func (o *Orchestrator) process(ctx context.Context, order domain.Order) error {
	if err := o.payments.Confirm(ctx, order.PaymentMethod, order.Totals.Total); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: %v", ErrPaymentFailed, err)
	}
	if o.orders != nil {
		if err := o.orders.Create(ctx, order); err != nil {
			return fmt.Errorf("record order: %w", err)
		}
	}
	return nil
}

func orderItems(items []domain.LineItem) []domain.OrderItem {
	out := make([]domain.OrderItem, 0, len(items))
	for _, item := range items {
		out = append(out, domain.OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
		})
	}
	return out
}
