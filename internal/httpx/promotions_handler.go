package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/quickbite/order-intake/internal/orders"
	"github.com/quickbite/order-intake/internal/promotions"
)

type PromotionLifecycle interface {
	Current(ctx context.Context, promoType string) (*promotions.Promotion, bool, error)
	Activate(ctx context.Context, promoType string, params promotions.Params) (*promotions.Promotion, error)
	Deactivate(ctx context.Context, promoType string) (*promotions.Promotion, error)
}

type PromotionsHandler struct {
	Promos PromotionLifecycle
}

func (h *PromotionsHandler) Register(r *chi.Mux) {
	r.Get("/promotions/{type}", h.getPromotion)
	r.Post("/promotions/{type}/activate", h.activate)
	r.Post("/promotions/{type}/deactivate", h.deactivate)
}

type promotionDTO struct {
	Type            string     `json:"type"`
	IsActive        bool       `json:"isActive"`
	DiscountPercent *float64   `json:"discountPercent,omitempty"`
	ActivatedAt     *time.Time `json:"activatedAt,omitempty"`
	ExpiresAt       *time.Time `json:"expiresAt,omitempty"`
}

func toPromotionDTO(promoType string, p *promotions.Promotion) promotionDTO {
	if p == nil {
		return promotionDTO{Type: promoType, IsActive: false}
	}
	dto := promotionDTO{
		Type:            p.Type,
		IsActive:        p.Active,
		DiscountPercent: &p.DiscountPercent,
	}
	if !p.ActivatedAt.IsZero() {
		t := p.ActivatedAt
		dto.ActivatedAt = &t
	}
	if !p.ExpiresAt.IsZero() {
		t := p.ExpiresAt
		dto.ExpiresAt = &t
	}
	return dto
}

func (h *PromotionsHandler) getPromotion(w http.ResponseWriter, r *http.Request) {
	promoType := chi.URLParam(r, "type")

	p, _, err := h.Promos.Current(r.Context(), promoType)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toPromotionDTO(promoType, p))
}

func (h *PromotionsHandler) activate(w http.ResponseWriter, r *http.Request) {
	promoType := chi.URLParam(r, "type")

	var req struct {
		DiscountPercent *float64 `json:"discountPercent"`
		DurationMinutes *int     `json:"durationMinutes"`
	}
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, r, http.StatusBadRequest,
				string(orders.CodeValidation), "Invalid JSON body.", nil)
			return
		}
	}
	if req.DiscountPercent != nil && *req.DiscountPercent <= 0 {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Discount percent must be a positive number.", nil)
		return
	}
	if req.DurationMinutes != nil && *req.DurationMinutes < 0 {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Duration minutes must not be negative.", nil)
		return
	}

	p, err := h.Promos.Activate(r.Context(), promoType, promotions.Params{
		DiscountPercent: req.DiscountPercent,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toPromotionDTO(promoType, p))
}

func (h *PromotionsHandler) deactivate(w http.ResponseWriter, r *http.Request) {
	promoType := chi.URLParam(r, "type")

	p, err := h.Promos.Deactivate(r.Context(), promoType)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, promotionDTO{
		Type:     promoType,
		IsActive: p != nil && p.Active,
	})
}
