package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/quickbite/order-intake/internal/orders"
)

type fakePlacer struct {
	got  orders.PlaceRequest
	out  *orders.Order
	fail error
}

func (f *fakePlacer) Place(_ context.Context, req orders.PlaceRequest) (*orders.Order, error) {
	f.got = req
	if f.fail != nil {
		return nil, f.fail
	}
	return f.out, nil
}

type fakeGetter struct {
	orders map[string]*orders.Order
}

func (f *fakeGetter) GetOrder(_ context.Context, id string) (*orders.Order, error) {
	if o, ok := f.orders[id]; ok {
		return o, nil
	}
	return nil, orders.ErrNotFound
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func postOrders(t *testing.T, h *OrdersHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	r := NewRouter(nil)
	h.Register(r)
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateOrder_SuccessEnvelope(t *testing.T) {
	vendorID := uuid.NewString()
	placed := &orders.Order{
		ID:              uuid.NewString(),
		UserID:          "user-1",
		VendorID:        vendorID,
		Items:           []orders.LineItem{{Name: "Burger", PriceCents: 1000, Qty: 2}},
		SubtotalCents:   2000,
		DiscountPercent: 60,
		DiscountCents:   1200,
		TotalCents:      800,
		PromotionType:   "six-hit",
		Status:          orders.StatusPlaced,
		CreatedAt:       time.Now().UTC(),
	}
	placer := &fakePlacer{out: placed}
	h := &OrdersHandler{Workflow: placer, Orders: &fakeGetter{}}

	rec := postOrders(t, h, `{"userId":"user-1","vendorId":"`+vendorID+`",
		"items":[{"name":"Burger","price":10.00,"quantity":2}]}`)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	require.NotEmpty(t, env.RequestID)

	var dto orderDTO
	b, _ := json.Marshal(env.Data)
	require.NoError(t, json.Unmarshal(b, &dto))
	require.Equal(t, 20.00, dto.Subtotal)
	require.Equal(t, 12.00, dto.DiscountAmount)
	require.Equal(t, 8.00, dto.Total)
	require.Equal(t, "PLACED", dto.Status)

	// dollars from the wire arrive at the workflow as cents
	require.Equal(t, int64(1000), placer.got.Items[0].PriceCents)
}

func TestCreateOrder_ErrorMapping(t *testing.T) {
	vendorID := uuid.NewString()
	body := `{"userId":"u","vendorId":"` + vendorID + `","items":[{"productId":"` +
		uuid.NewString() + `","quantity":1}]}`

	cases := []struct {
		fail   *orders.Error
		status int
	}{
		{orders.Validation("User id is required."), http.StatusBadRequest},
		{orders.NotFound("Vendor not found or inactive."), http.StatusNotFound},
		{&orders.Error{Code: orders.CodeProductNotFound, Message: "x"}, http.StatusNotFound},
		{&orders.Error{Code: orders.CodeProductInactive, Message: "x"}, http.StatusConflict},
		{orders.OutOfStock(uuid.NewString(), 1, 3), http.StatusConflict},
		{&orders.Error{Code: orders.CodeVendorCapacity, Message: "x"}, http.StatusTooManyRequests},
		{orders.Internal(context.DeadlineExceeded), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		t.Run(string(tc.fail.Code), func(t *testing.T) {
			h := &OrdersHandler{Workflow: &fakePlacer{fail: tc.fail}, Orders: &fakeGetter{}}
			rec := postOrders(t, h, body)
			require.Equal(t, tc.status, rec.Code)

			env := decodeEnvelope(t, rec)
			require.False(t, env.Success)
			require.Equal(t, string(tc.fail.Code), env.Error.Code)
		})
	}
}

func TestCreateOrder_OutOfStockDetails(t *testing.T) {
	productID := uuid.NewString()
	h := &OrdersHandler{
		Workflow: &fakePlacer{fail: orders.OutOfStock(productID, 2, 5)},
		Orders:   &fakeGetter{},
	}
	rec := postOrders(t, h, `{"userId":"u","vendorId":"`+uuid.NewString()+
		`","items":[{"productId":"`+productID+`","quantity":5}]}`)

	require.Equal(t, http.StatusConflict, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "OUT_OF_STOCK", env.Error.Code)
	require.EqualValues(t, 2, env.Error.Details["availableStock"])
	require.EqualValues(t, 5, env.Error.Details["requestedQuantity"])
}

func TestCreateOrder_MalformedJSON(t *testing.T) {
	h := &OrdersHandler{Workflow: &fakePlacer{}, Orders: &fakeGetter{}}
	rec := postOrders(t, h, `{"userId":`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	env := decodeEnvelope(t, rec)
	require.Equal(t, "VALIDATION_ERROR", env.Error.Code)
}

func TestGetOrder(t *testing.T) {
	o := &orders.Order{
		ID:       uuid.NewString(),
		UserID:   "u",
		VendorID: uuid.NewString(),
		Items:    []orders.LineItem{{Name: "Tea", PriceCents: 250, Qty: 1}},
		Status:   orders.StatusPlaced,
	}
	h := &OrdersHandler{
		Workflow: &fakePlacer{},
		Orders:   &fakeGetter{orders: map[string]*orders.Order{o.ID: o}},
	}
	r := NewRouter(nil)
	h.Register(r)

	// repeated reads return identical data
	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/orders/"+o.ID, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		env := decodeEnvelope(t, rec)
		b, _ := json.Marshal(env.Data)
		bodies = append(bodies, string(b))
	}
	require.Equal(t, bodies[0], bodies[1])

	req := httptest.NewRequest(http.MethodGet, "/orders/"+uuid.NewString(), nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotFound, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/orders/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
