package orders

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quickbite/order-intake/internal/catalog"
	"github.com/quickbite/order-intake/internal/inventory"
	"github.com/quickbite/order-intake/internal/pricing"
)

type VendorDirectory interface {
	GetVendor(ctx context.Context, id string) (*catalog.Vendor, error)
}

type StockLedger interface {
	Reserve(ctx context.Context, productID, vendorID string, qty int) (*catalog.Product, error)
	Release(ctx context.Context, productID string, qty int) error
}

type DiscountSource interface {
	ActiveDiscount(ctx context.Context, promoType string) (float64, string, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id string) (*Order, error)
	CountVendorOrdersSince(ctx context.Context, vendorID string, since time.Time) (int, error)
}

// ItemInput is one requested line: either a catalog reference (ProductID
// set, name/price ignored) or an inline item carrying its own name and
// price.
type ItemInput struct {
	ProductID  string
	Name       string
	PriceCents int64
	Qty        int
}

type PlaceRequest struct {
	UserID    string
	VendorID  string
	Items     []ItemInput
	RequestID string
}

// Workflow runs order placement: validate, admit, reserve stock item by
// item, price under the current promotion, persist. A failed reservation
// releases everything reserved so far; there are no partial orders.
type Workflow struct {
	Vendors   VendorDirectory
	Ledger    StockLedger
	Promos    DiscountSource
	Store     OrderStore
	Admission *AdmissionController
	Events    *Publisher
	PromoType string
	Log       *slog.Logger
}

func (w *Workflow) logger() *slog.Logger {
	if w.Log != nil {
		return w.Log
	}
	return slog.Default()
}

func (w *Workflow) Place(ctx context.Context, req PlaceRequest) (*Order, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	vendor, err := w.Vendors.GetVendor(ctx, req.VendorID)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, NotFound("Vendor not found or inactive.")
	}
	if err != nil {
		return nil, Internal(err)
	}
	if !vendor.Active {
		return nil, NotFound("Vendor not found or inactive.")
	}

	if err := w.Admission.Check(ctx, req.VendorID); err != nil {
		return nil, err
	}

	type reservation struct {
		productID string
		qty       int
	}
	var reserved []reservation

	resolved := make([]LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		if it.ProductID == "" {
			resolved = append(resolved, LineItem{
				Name:       strings.TrimSpace(it.Name),
				PriceCents: it.PriceCents,
				Qty:        it.Qty,
			})
			continue
		}

		p, err := w.Ledger.Reserve(ctx, it.ProductID, req.VendorID, it.Qty)
		if err != nil {
			// compensate everything granted so far, concurrently and
			// best-effort; the order fails with the originating error
			g := new(errgroup.Group)
			for _, r := range reserved {
				g.Go(func() error {
					if rerr := w.Ledger.Release(ctx, r.productID, r.qty); rerr != nil {
						w.logger().Error("release reserved stock failed",
							"product_id", r.productID, "qty", r.qty, "error", rerr)
					}
					return nil
				})
			}
			_ = g.Wait()
			return nil, classifyReserve(err)
		}

		reserved = append(reserved, reservation{productID: p.ID, qty: it.Qty})
		resolved = append(resolved, LineItem{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Qty:        it.Qty,
		})
	}

	discount, promoTag, err := w.Promos.ActiveDiscount(ctx, w.PromoType)
	if err != nil {
		return nil, Internal(err)
	}

	priced := make([]pricing.Item, 0, len(resolved))
	for _, it := range resolved {
		priced = append(priced, pricing.Item{PriceCents: it.PriceCents, Qty: it.Qty})
	}
	totals := pricing.ComputeTotals(priced, discount)

	order := &Order{
		ID:              uuid.NewString(),
		UserID:          strings.TrimSpace(req.UserID),
		VendorID:        req.VendorID,
		Items:           resolved,
		SubtotalCents:   totals.SubtotalCents,
		DiscountPercent: discount,
		DiscountCents:   totals.DiscountCents,
		TotalCents:      totals.TotalCents,
		PromotionType:   promoTag,
		Status:          StatusPlaced,
	}
	if err := w.Store.CreateOrder(ctx, order); err != nil {
		return nil, Internal(err)
	}

	w.Events.OrderPlaced(order, req.RequestID)
	return order, nil
}

func classifyReserve(err error) error {
	var short *inventory.InsufficientStockError
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		return &Error{Code: CodeProductNotFound, Message: "Product not found for this vendor."}
	case errors.Is(err, inventory.ErrInactive):
		return &Error{Code: CodeProductInactive, Message: "Product is not available."}
	case errors.As(err, &short):
		return OutOfStock(short.ProductID, short.Available, short.Requested)
	default:
		return Internal(err)
	}
}

func validate(req PlaceRequest) error {
	if strings.TrimSpace(req.UserID) == "" {
		return Validation("User id is required.")
	}
	if uuid.Validate(req.VendorID) != nil {
		return Validation("Invalid vendor id.")
	}
	if len(req.Items) == 0 {
		return Validation("Items must be a non-empty array.")
	}
	for _, it := range req.Items {
		if it.Qty <= 0 {
			return Validation("Item quantity must be a positive integer.")
		}
		if it.ProductID != "" {
			if uuid.Validate(it.ProductID) != nil {
				return Validation("Invalid product id.")
			}
			continue
		}
		if strings.TrimSpace(it.Name) == "" {
			return Validation("Item name is required.")
		}
		if it.PriceCents <= 0 {
			return Validation("Item price must be a positive number.")
		}
	}
	return nil
}
