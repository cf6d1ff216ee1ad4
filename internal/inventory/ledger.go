// Package inventory owns stock mutation under contention. Reserve is a
// single conditional UPDATE: concurrent attempts serialize on the product
// row, so in aggregate at most the available quantity is ever granted.
package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/quickbite/order-intake/internal/catalog"
)

var (
	ErrNotFound = errors.New("product not found for this vendor")
	ErrInactive = errors.New("product is not available")
)

// InsufficientStockError reports the exact shortfall so a caller can retry
// with a reduced quantity.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: available=%d requested=%d",
		e.ProductID, e.Available, e.Requested)
}

type Ledger struct{ DB *pgxpool.Pool }

// Reserve decrements stock by qty only if the product exists, belongs to
// vendorID, is active and has at least qty units. On a zero-row match it
// re-reads the product purely to classify the failure; the read is
// diagnostics, not part of the atomicity guarantee.
func (l *Ledger) Reserve(ctx context.Context, productID, vendorID string, qty int) (*catalog.Product, error) {
	var p catalog.Product
	err := l.DB.QueryRow(ctx, `
		UPDATE products SET stock = stock - $3, updated_at = now()
		WHERE id=$1 AND vendor_id=$2 AND active AND stock >= $3
		RETURNING id, vendor_id, name, price_cents, stock, active, created_at, updated_at`,
		productID, vendorID, qty).
		Scan(&p.ID, &p.VendorID, &p.Name, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err == nil {
		return &p, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}
	return nil, l.classify(ctx, productID, vendorID, qty)
}

func (l *Ledger) classify(ctx context.Context, productID, vendorID string, qty int) error {
	var (
		owner  string
		active bool
		stock  int
	)
	err := l.DB.QueryRow(ctx, `SELECT vendor_id, active, stock FROM products WHERE id=$1`, productID).
		Scan(&owner, &active, &stock)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if owner != vendorID {
		return ErrNotFound
	}
	if !active {
		return ErrInactive
	}
	return &InsufficientStockError{ProductID: productID, Available: stock, Requested: qty}
}

// Release returns qty units unconditionally. Used to compensate a
// reservation whose order was abandoned mid-flight.
func (l *Ledger) Release(ctx context.Context, productID string, qty int) error {
	ct, err := l.DB.Exec(ctx, `
		UPDATE products SET stock = stock + $2, updated_at = now() WHERE id=$1`,
		productID, qty)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
