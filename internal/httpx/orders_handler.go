package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/quickbite/order-intake/internal/orders"
	"github.com/quickbite/order-intake/internal/pricing"
	"github.com/quickbite/order-intake/internal/redisx"
)

type OrderPlacer interface {
	Place(ctx context.Context, req orders.PlaceRequest) (*orders.Order, error)
}

type OrderGetter interface {
	GetOrder(ctx context.Context, id string) (*orders.Order, error)
}

type OrdersHandler struct {
	Workflow OrderPlacer
	Orders   OrderGetter
	Redis    *redis.Client
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Post("/orders", h.createOrder)
	r.Get("/orders/{id}", h.getOrder)
}

type orderItemReq struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Quantity  int     `json:"quantity"`
}

type createOrderReq struct {
	UserID   string         `json:"userId"`
	VendorID string         `json:"vendorId"`
	Items    []orderItemReq `json:"items"`
}

type orderItemDTO struct {
	ProductID string  `json:"productId,omitempty"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

type orderDTO struct {
	ID              string         `json:"id"`
	UserID          string         `json:"userId"`
	VendorID        string         `json:"vendorId"`
	Items           []orderItemDTO `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	DiscountPercent float64        `json:"discountPercent"`
	DiscountAmount  float64        `json:"discountAmount"`
	Total           float64        `json:"total"`
	PromotionType   string         `json:"promotionType,omitempty"`
	Status          string         `json:"status"`
	CreatedAt       time.Time      `json:"createdAt"`
}

func toOrderDTO(o *orders.Order) orderDTO {
	items := make([]orderItemDTO, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemDTO{
			ProductID: it.ProductID,
			Name:      it.Name,
			Price:     pricing.Dollars(it.PriceCents),
			Quantity:  it.Qty,
		})
	}
	return orderDTO{
		ID:              o.ID,
		UserID:          o.UserID,
		VendorID:        o.VendorID,
		Items:           items,
		Subtotal:        pricing.Dollars(o.SubtotalCents),
		DiscountPercent: o.DiscountPercent,
		DiscountAmount:  pricing.Dollars(o.DiscountCents),
		Total:           pricing.Dollars(o.TotalCents),
		PromotionType:   o.PromotionType,
		Status:          string(o.Status),
		CreatedAt:       o.CreatedAt,
	}
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid JSON body.", nil)
		return
	}

	items := make([]orders.ItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, orders.ItemInput{
			ProductID:  it.ProductID,
			Name:       it.Name,
			PriceCents: pricing.Cents(it.Price),
			Qty:        it.Quantity,
		})
	}

	order, err := h.Workflow.Place(r.Context(), orders.PlaceRequest{
		UserID:    req.UserID,
		VendorID:  req.VendorID,
		Items:     items,
		RequestID: middleware.GetReqID(r.Context()),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toOrderDTO(order))
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid order id.", nil)
		return
	}

	// orders are immutable once placed, so a cached body is never stale
	if h.Redis != nil {
		key := fmt.Sprintf(redisx.KeyOrder, id)
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			writeData(w, r, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	order, err := h.Orders.GetOrder(r.Context(), id)
	if errors.Is(err, orders.ErrNotFound) {
		writeError(w, r, http.StatusNotFound,
			string(orders.CodeNotFound), "Order not found.", nil)
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	dto := toOrderDTO(order)
	if h.Redis != nil {
		if b, err := json.Marshal(dto); err == nil {
			key := fmt.Sprintf(redisx.KeyOrder, id)
			_ = h.Redis.Set(r.Context(), key, b, redisx.TTLOrderCache).Err()
		}
	}
	writeData(w, r, http.StatusOK, dto)
}
