package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"legato/internal/domain"
)

const (
	EventOrderPlaced = "OrderPlaced"

	TopicOrderPlaced = "legato.order.placed"
)

type Envelope struct {
	EventID       string          `json:"eventId"`
	EventType     string          `json:"eventType"`
	EventVersion  int             `json:"eventVersion"`
	OccurredAt    time.Time       `json:"occurredAt"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlationId,omitempty"`
	Payload       json.RawMessage `json:"payload"`
}

type OrderPlacedPayload struct {
	OrderID       string               `json:"orderId"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	Totals        domain.OrderTotals   `json:"totals"`
	Items         []domain.OrderItem   `json:"items"`
	City          string               `json:"city,omitempty"`
	PlacedAt      time.Time            `json:"placedAt"`
}

// NewOrderPlaced wraps an order into a versioned envelope keyed by order id.
func NewOrderPlaced(producer string, order domain.Order) (Envelope, error) {
	payload, err := json.Marshal(OrderPlacedPayload{
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		Totals:        order.Totals,
		Items:         order.Items,
		City:          order.ShippingAddress.City,
		PlacedAt:      order.CreatedAt,
	})
	if err != nil {
		return Envelope{}, fmt.Errorf("encode payload: %w", err)
	}
	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		CorrelationID: order.ID,
		Payload:       payload,
	}, nil
}
