package checkout

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"legato/internal/domain"
	"legato/internal/pricing"
)

type stubCart struct {
	items   []domain.LineItem
	itemErr error
	clears  int
}

func (s *stubCart) Items(_ context.Context, _ string) ([]domain.LineItem, error) {
	return s.items, s.itemErr
}

func (s *stubCart) Clear(_ context.Context, _ string) error {
	s.clears++
	s.items = nil
	return nil
}

type stubPayments struct {
	err   error
	calls int
}

func (s *stubPayments) Confirm(_ context.Context, _ domain.PaymentMethod, _ int64) error {
	s.calls++
	return s.err
}

type stubOrders struct {
	created []domain.Order
	err     error
}

func (s *stubOrders) Create(_ context.Context, o domain.Order) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, o)
	return nil
}

type stubPublisher struct {
	published []domain.Order
}

func (s *stubPublisher) PublishOrderPlaced(_ context.Context, o domain.Order) error {
	s.published = append(s.published, o)
	return nil
}

func validRequest() Request {
	return Request{
		Address: domain.ShippingAddress{
			FullName:     "Asha Rao",
			Phone:        "9876543210",
			Email:        "asha@example.com",
			AddressLine1: "12 MG Road",
			City:         "Bengaluru",
			State:        "Karnataka",
			Pincode:      "560001",
			Country:      "India",
		},
		PaymentMethod: domain.PaymentCard,
	}
}

func cartItems() []domain.LineItem {
	return []domain.LineItem{
		{CartEntry: domain.CartEntry{ID: "A", Name: "Guitar", Price: 25000}, Quantity: 2},
		{CartEntry: domain.CartEntry{ID: "B", Name: "Strings", Price: 10000}, Quantity: 1},
	}
}

func newTestOrchestrator(c Cart, p PaymentSimulator, orders OrderRecorder, pub Publisher) *Orchestrator {
	o := NewOrchestrator(c, p, pricing.DefaultConfig(), Options{Orders: orders, Publisher: pub})
	o.now = func() time.Time { return time.Date(2026, 6, 1, 8, 0, 0, 0, time.UTC) }
	o.newID = func(t time.Time) string { return NewOrderID(t, rand.New(rand.NewSource(1))) }
	return o
}

func TestSubmit_Success(t *testing.T) {
	c := &stubCart{items: cartItems()}
	orders := &stubOrders{}
	pub := &stubPublisher{}
	o := newTestOrchestrator(c, &stubPayments{}, orders, pub)
	flow := NewFlow()

	conf, err := o.Submit(context.Background(), flow, "sess", validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if flow.State() != StateSucceeded {
		t.Fatalf("expected succeeded, got %s", flow.State())
	}
	want := []State{StateIdle, StateFormEntry, StateValidating, StateProcessing, StateSucceeded}
	if got := flow.History(); !equalStates(got, want) {
		t.Fatalf("unexpected history %v", got)
	}
	if conf.Totals.Total != 70800 || conf.Totals.Shipping != 0 {
		t.Fatalf("unexpected totals %+v", conf.Totals)
	}
	if !strings.HasPrefix(conf.OrderID, "LEG") {
		t.Fatalf("unexpected order id %s", conf.OrderID)
	}
	if c.clears != 1 {
		t.Fatalf("expected cart cleared once, got %d", c.clears)
	}
	if len(orders.created) != 1 || orders.created[0].ID != conf.OrderID || len(orders.created[0].Items) != 2 {
		t.Fatalf("unexpected recorded orders %+v", orders.created)
	}
	if len(pub.published) != 1 {
		t.Fatalf("expected one published event, got %d", len(pub.published))
	}
}

func TestSubmit_EmptyPincodeBlocksProcessing(t *testing.T) {
	c := &stubCart{items: cartItems()}
	payments := &stubPayments{}
	o := newTestOrchestrator(c, payments, nil, nil)
	flow := NewFlow()
	req := validRequest()
	req.Address.Pincode = "  "

	_, err := o.Submit(context.Background(), flow, "sess", req)

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "pincode" {
		t.Fatalf("expected pincode validation error, got %v", err)
	}
	if flow.State() != StateFormEntry {
		t.Fatalf("expected form entry, got %s", flow.State())
	}
	if payments.calls != 0 {
		t.Fatalf("payment must not run")
	}
	if c.clears != 0 || len(c.items) != 2 {
		t.Fatalf("cart must be unchanged")
	}
}

func TestSubmit_EmptyCart(t *testing.T) {
	o := newTestOrchestrator(&stubCart{}, &stubPayments{}, nil, nil)

	_, err := o.Place(context.Background(), "sess", validRequest())

	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) || vErr.Field != "cart" {
		t.Fatalf("expected cart validation error, got %v", err)
	}
}

func TestSubmit_InvalidPaymentMethod(t *testing.T) {
	o := newTestOrchestrator(&stubCart{items: cartItems()}, &stubPayments{}, nil, nil)
	req := validRequest()
	req.PaymentMethod = "bitcoin"

	_, err := o.Place(context.Background(), "sess", req)
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmit_PaymentFailureKeepsCartAndAllowsRetry(t *testing.T) {
	c := &stubCart{items: cartItems()}
	payments := &stubPayments{err: errors.New("declined")}
	o := newTestOrchestrator(c, payments, nil, nil)
	flow := NewFlow()

	_, err := o.Submit(context.Background(), flow, "sess", validRequest())
	if !errors.Is(err, ErrPaymentFailed) {
		t.Fatalf("expected payment failure, got %v", err)
	}
	if flow.State() != StateFormEntry {
		t.Fatalf("expected form entry after failure, got %s", flow.State())
	}
	if c.clears != 0 {
		t.Fatalf("cart must not be cleared on failure")
	}

	payments.err = nil
	if _, err := o.Submit(context.Background(), flow, "sess", validRequest()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if flow.State() != StateSucceeded {
		t.Fatalf("expected succeeded on retry, got %s", flow.State())
	}
}

func TestSubmit_RecordFailureDoesNotClearCart(t *testing.T) {
	c := &stubCart{items: cartItems()}
	o := newTestOrchestrator(c, &stubPayments{}, &stubOrders{err: errors.New("db down")}, nil)

	_, err := o.Place(context.Background(), "sess", validRequest())
	if err == nil || !strings.Contains(err.Error(), "record order") {
		t.Fatalf("expected record error, got %v", err)
	}
	if c.clears != 0 {
		t.Fatalf("cart must not be cleared")
	}
}

func TestSubmit_AfterSuccessIsIllegal(t *testing.T) {
	o := newTestOrchestrator(&stubCart{items: cartItems()}, &stubPayments{}, nil, nil)
	flow := NewFlow()
	if _, err := o.Submit(context.Background(), flow, "sess", validRequest()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := o.Submit(context.Background(), flow, "sess", validRequest())
	if !errors.Is(err, ErrIllegalTransition) {
		t.Fatalf("expected illegal transition, got %v", err)
	}
}

func TestDelaySimulator_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := DelaySimulator{Delay: time.Minute}.Confirm(ctx, domain.PaymentCOD, 100)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected cancellation, got %v", err)
	}
}

func TestDelaySimulator_Succeeds(t *testing.T) {
	if err := (DelaySimulator{Delay: time.Millisecond}).Confirm(context.Background(), domain.PaymentUPI, 100); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNewOrderID(t *testing.T) {
	now := time.UnixMilli(1767225600123)
	id := NewOrderID(now, rand.New(rand.NewSource(3)))
	if !strings.HasPrefix(id, "LEG1767225600123") || len(id) != len("LEG1767225600123")+2 {
		t.Fatalf("unexpected id %s", id)
	}
}

func TestCanTransition(t *testing.T) {
	if CanTransition(StateFormEntry, StateProcessing) {
		t.Fatalf("form entry must pass through validation")
	}
	if CanTransition(StateSucceeded, StateFormEntry) {
		t.Fatalf("succeeded is terminal")
	}
	if !CanTransition(StateFailed, StateFormEntry) {
		t.Fatalf("failed must return to form entry")
	}
}

func equalStates(a, b []State) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
