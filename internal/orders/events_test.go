package orders

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	kafkax "github.com/quickbite/order-intake/internal/kafka"
)

func TestOrderPlacedEnvelopeRoundTrip(t *testing.T) {
	o := &Order{
		ID:       uuid.NewString(),
		UserID:   "user-42",
		VendorID: uuid.NewString(),
		Items: []LineItem{
			{ProductID: uuid.NewString(), Name: "Nasi Goreng", PriceCents: 1500, Qty: 2},
			{Name: "Extra Sambal", PriceCents: 300, Qty: 1},
		},
		SubtotalCents:   3300,
		DiscountPercent: 60,
		DiscountCents:   1980,
		TotalCents:      1320,
		PromotionType:   "six-hit",
	}

	ev := newOrderPlacedEnvelope(o, "order-intake-api", "trace-1")
	require.Equal(t, EventOrderPlaced, ev.EventType)
	require.Equal(t, 1, ev.EventVersion)
	require.Equal(t, o.ID, ev.CorrelationID)
	require.Equal(t, "order-intake-api", ev.Producer)

	// over the wire and back, the way a consumer reads it
	wire := kafkax.MustMarshal(ev)
	var got Envelope
	require.NoError(t, json.Unmarshal(wire, &got))

	payload, err := kafkax.UnwrapPayload[OrderPlacedPayload](got.Payload)
	require.NoError(t, err)
	require.Equal(t, o.ID, payload.OrderID)
	require.Equal(t, o.UserID, payload.UserID)
	require.Equal(t, o.VendorID, payload.VendorID)
	require.Len(t, payload.Items, 2)
	require.Equal(t, "Nasi Goreng", payload.Items[0].Name)
	require.Equal(t, int64(1500), payload.Items[0].PriceCents)
	require.Empty(t, payload.Items[1].ProductID)
	require.Equal(t, o.TotalCents, payload.TotalCents)
	require.Equal(t, "six-hit", payload.PromotionType)
}

func TestUnwrapPayloadRejectsMalformedPayload(t *testing.T) {
	_, err := kafkax.UnwrapPayload[OrderPlacedPayload](json.RawMessage(`{"order_id":`))
	require.Error(t, err)
}
