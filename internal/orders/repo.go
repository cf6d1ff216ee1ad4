package orders

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("order not found")

type Repo struct{ DB *pgxpool.Pool }

// CreateOrder persists the order and its items in one transaction and
// fills in the store-assigned creation time.
func (r *Repo) CreateOrder(ctx context.Context, o *Order) error {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO orders(id, user_id, vendor_id, status, subtotal_cents,
			discount_percent, discount_cents, total_cents, promotion_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, ''))
		RETURNING created_at`,
		o.ID, o.UserID, o.VendorID, string(o.Status), o.SubtotalCents,
		o.DiscountPercent, o.DiscountCents, o.TotalCents, o.PromotionType).
		Scan(&o.CreatedAt)
	if err != nil {
		return err
	}

	for _, it := range o.Items {
		_, err = tx.Exec(ctx, `
			INSERT INTO order_items(order_id, product_id, name, qty, price_cents)
			VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5)`,
			o.ID, it.ProductID, it.Name, it.Qty, it.PriceCents)
		if err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (r *Repo) GetOrder(ctx context.Context, id string) (*Order, error) {
	var o Order
	var status string
	err := r.DB.QueryRow(ctx, `
		SELECT id, user_id, vendor_id, status, subtotal_cents,
			discount_percent, discount_cents, total_cents,
			COALESCE(promotion_type, ''), created_at
		FROM orders WHERE id=$1`, id).
		Scan(&o.ID, &o.UserID, &o.VendorID, &status, &o.SubtotalCents,
			&o.DiscountPercent, &o.DiscountCents, &o.TotalCents,
			&o.PromotionType, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	o.Status = Status(status)

	rows, err := r.DB.Query(ctx, `
		SELECT COALESCE(product_id::text, ''), name, qty, price_cents
		FROM order_items WHERE order_id=$1`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var it LineItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Qty, &it.PriceCents); err != nil {
			return nil, err
		}
		o.Items = append(o.Items, it)
	}
	return &o, rows.Err()
}

// CountVendorOrdersSince backs both the admission check and the vendor
// metrics endpoint.
func (r *Repo) CountVendorOrdersSince(ctx context.Context, vendorID string, since time.Time) (int, error) {
	var n int
	err := r.DB.QueryRow(ctx, `
		SELECT COUNT(*) FROM orders WHERE vendor_id=$1 AND created_at >= $2`,
		vendorID, since).Scan(&n)
	return n, err
}
