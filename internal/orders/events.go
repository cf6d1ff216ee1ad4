package orders

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/quickbite/order-intake/internal/kafka"
)

const EventOrderPlaced = "OrderPlaced"

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order id
	Payload       json.RawMessage `json:"payload"`
}

type PlacedItem struct {
	ProductID  string `json:"product_id,omitempty"`
	Name       string `json:"name"`
	Qty        int    `json:"qty"`
	PriceCents int64  `json:"price_cents"`
}

type OrderPlacedPayload struct {
	OrderID         string       `json:"order_id"`
	UserID          string       `json:"user_id"`
	VendorID        string       `json:"vendor_id"`
	Items           []PlacedItem `json:"items"`
	SubtotalCents   int64        `json:"subtotal_cents"`
	DiscountPercent float64      `json:"discount_percent"`
	DiscountCents   int64        `json:"discount_cents"`
	TotalCents      int64        `json:"total_cents"`
	PromotionType   string       `json:"promotion_type,omitempty"`
}

// Publisher emits order events after persistence. Events are notify-only:
// placement never depends on the broker, and a nil Publisher is a no-op.
type Publisher struct {
	Producer *kafkax.Producer
	Service  string
}

func (p *Publisher) OrderPlaced(o *Order, traceID string) {
	if p == nil || p.Producer == nil {
		return
	}
	ev := newOrderPlacedEnvelope(o, p.Service, traceID)
	p.Producer.Publish(PartitionKey(o.ID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(EventOrderPlaced)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func newOrderPlacedEnvelope(o *Order, producer, traceID string) Envelope {
	items := make([]PlacedItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, PlacedItem{
			ProductID: it.ProductID, Name: it.Name, Qty: it.Qty, PriceCents: it.PriceCents,
		})
	}

	return Envelope{
		EventID:       uuid.NewString(),
		EventType:     EventOrderPlaced,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      producer,
		TraceID:       traceID,
		CorrelationID: o.ID,
		Payload: kafkax.MustMarshal(OrderPlacedPayload{
			OrderID:         o.ID,
			UserID:          o.UserID,
			VendorID:        o.VendorID,
			Items:           items,
			SubtotalCents:   o.SubtotalCents,
			DiscountPercent: o.DiscountPercent,
			DiscountCents:   o.DiscountCents,
			TotalCents:      o.TotalCents,
			PromotionType:   o.PromotionType,
		}),
	}
}
