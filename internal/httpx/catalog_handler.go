package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/quickbite/order-intake/internal/catalog"
	"github.com/quickbite/order-intake/internal/orders"
	"github.com/quickbite/order-intake/internal/pricing"
)

type CatalogRepo interface {
	CreateVendor(ctx context.Context, name string) (*catalog.Vendor, error)
	ListVendors(ctx context.Context) ([]catalog.Vendor, error)
	GetVendor(ctx context.Context, id string) (*catalog.Vendor, error)
	CreateProduct(ctx context.Context, vendorID, name string, priceCents int64, stock int) (*catalog.Product, error)
	ListProducts(ctx context.Context, vendorID string) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	SetStock(ctx context.Context, id string, stock int) (*catalog.Product, error)
}

type CatalogHandler struct {
	Repo        CatalogRepo
	OrderCounts orders.OrderCounter
}

func (h *CatalogHandler) Register(r *chi.Mux) {
	r.Post("/vendors", h.createVendor)
	r.Get("/vendors", h.listVendors)
	r.Get("/vendors/{id}/metrics", h.vendorMetrics)

	r.Post("/products", h.createProduct)
	r.Get("/products", h.listProducts)
	r.Get("/products/{id}", h.getProduct)
	r.Patch("/products/{id}/stock", h.setStock)
}

type vendorDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toVendorDTO(v *catalog.Vendor) vendorDTO {
	return vendorDTO{ID: v.ID, Name: v.Name, Active: v.Active, CreatedAt: v.CreatedAt}
}

type productDTO struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendorId"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Stock     int       `json:"stock"`
	Active    bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProductDTO(p *catalog.Product) productDTO {
	return productDTO{
		ID: p.ID, VendorID: p.VendorID, Name: p.Name,
		Price: pricing.Dollars(p.PriceCents), Stock: p.Stock,
		Active: p.Active, CreatedAt: p.CreatedAt,
	}
}

func (h *CatalogHandler) createVendor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid JSON body.", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Vendor name is required.", nil)
		return
	}

	v, err := h.Repo.CreateVendor(r.Context(), strings.TrimSpace(req.Name))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toVendorDTO(v))
}

func (h *CatalogHandler) listVendors(w http.ResponseWriter, r *http.Request) {
	vs, err := h.Repo.ListVendors(r.Context())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]vendorDTO, 0, len(vs))
	for i := range vs {
		out = append(out, toVendorDTO(&vs[i]))
	}
	writeData(w, r, http.StatusOK, out)
}

func (h *CatalogHandler) vendorMetrics(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid vendor id.", nil)
		return
	}

	windowMinutes := 60
	if s := r.URL.Query().Get("windowMinutes"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			windowMinutes = n
		}
	}

	if _, err := h.Repo.GetVendor(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound,
				string(orders.CodeNotFound), "Vendor not found.", nil)
			return
		}
		writeDomainError(w, r, err)
		return
	}

	since := time.Now().Add(-time.Duration(windowMinutes) * time.Minute)
	count, err := h.OrderCounts.CountVendorOrdersSince(r.Context(), id, since)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	writeData(w, r, http.StatusOK, map[string]any{
		"vendorId":      id,
		"windowMinutes": windowMinutes,
		"orderCount":    count,
	})
}

func (h *CatalogHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req struct {
		VendorID string   `json:"vendorId"`
		Name     string   `json:"name"`
		Price    float64  `json:"price"`
		Stock    *float64 `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid JSON body.", nil)
		return
	}
	if uuid.Validate(req.VendorID) != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid vendor id.", nil)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Product name is required.", nil)
		return
	}
	if req.Price <= 0 {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Product price must be a positive number.", nil)
		return
	}
	stock, ok := asStock(req.Stock)
	if !ok {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Product stock must be an integer >= 0.", nil)
		return
	}

	vendor, err := h.Repo.GetVendor(r.Context(), req.VendorID)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, r, http.StatusNotFound,
			string(orders.CodeNotFound), "Vendor not found or inactive.", nil)
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	if !vendor.Active {
		writeError(w, r, http.StatusNotFound,
			string(orders.CodeNotFound), "Vendor not found or inactive.", nil)
		return
	}

	p, err := h.Repo.CreateProduct(r.Context(), req.VendorID,
		strings.TrimSpace(req.Name), pricing.Cents(req.Price), stock)
	if errors.Is(err, catalog.ErrDuplicateName) {
		writeError(w, r, http.StatusConflict,
			string(orders.CodeConflict), "Product name already exists for this vendor.", nil)
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusCreated, toProductDTO(p))
}

func (h *CatalogHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	vendorID := r.URL.Query().Get("vendorId")
	if vendorID != "" && uuid.Validate(vendorID) != nil {
		vendorID = ""
	}
	ps, err := h.Repo.ListProducts(r.Context(), vendorID)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]productDTO, 0, len(ps))
	for i := range ps {
		out = append(out, toProductDTO(&ps[i]))
	}
	writeData(w, r, http.StatusOK, out)
}

func (h *CatalogHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid product id.", nil)
		return
	}
	p, err := h.Repo.GetProduct(r.Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, r, http.StatusNotFound,
			string(orders.CodeNotFound), "Product not found.", nil)
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProductDTO(p))
}

func (h *CatalogHandler) setStock(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if uuid.Validate(id) != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid product id.", nil)
		return
	}
	var req struct {
		Stock *float64 `json:"stock"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Invalid JSON body.", nil)
		return
	}
	stock, ok := asStock(req.Stock)
	if !ok {
		writeError(w, r, http.StatusBadRequest,
			string(orders.CodeValidation), "Stock must be an integer >= 0.", nil)
		return
	}

	p, err := h.Repo.SetStock(r.Context(), id, stock)
	if errors.Is(err, catalog.ErrNotFound) {
		writeError(w, r, http.StatusNotFound,
			string(orders.CodeNotFound), "Product not found.", nil)
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeData(w, r, http.StatusOK, toProductDTO(p))
}

// asStock accepts only a present, non-negative integer value. JSON numbers
// decode as float64, so integrality has to be checked by hand.
func asStock(v *float64) (int, bool) {
	if v == nil || *v < 0 || *v != math.Trunc(*v) {
		return 0, false
	}
	return int(*v), true
}
