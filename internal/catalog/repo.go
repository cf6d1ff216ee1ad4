package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrDuplicateName = errors.New("product name already exists for this vendor")
)

const uniqueViolation = "23505"

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) CreateVendor(ctx context.Context, name string) (*Vendor, error) {
	v := &Vendor{ID: uuid.NewString(), Name: name}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO vendors(id, name) VALUES ($1, $2)
		RETURNING active, created_at, updated_at`,
		v.ID, v.Name).Scan(&v.Active, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *Repo) ListVendors(ctx context.Context) ([]Vendor, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, active, created_at, updated_at
		FROM vendors ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vendor
	for rows.Next() {
		var v Vendor
		if err := rows.Scan(&v.ID, &v.Name, &v.Active, &v.CreatedAt, &v.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *Repo) GetVendor(ctx context.Context, id string) (*Vendor, error) {
	var v Vendor
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, active, created_at, updated_at
		FROM vendors WHERE id=$1`, id).
		Scan(&v.ID, &v.Name, &v.Active, &v.CreatedAt, &v.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *Repo) CreateProduct(ctx context.Context, vendorID, name string, priceCents int64, stock int) (*Product, error) {
	p := &Product{ID: uuid.NewString(), VendorID: vendorID, Name: name, PriceCents: priceCents, Stock: stock}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, vendor_id, name, price_cents, stock)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING active, created_at, updated_at`,
		p.ID, p.VendorID, p.Name, p.PriceCents, p.Stock).
		Scan(&p.Active, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return p, nil
}

// ListProducts returns all products, or a single vendor's when vendorID is set.
func (r *Repo) ListProducts(ctx context.Context, vendorID string) ([]Product, error) {
	q := `SELECT id, vendor_id, name, price_cents, stock, active, created_at, updated_at
	      FROM products`
	args := []any{}
	if vendorID != "" {
		q += ` WHERE vendor_id=$1`
		args = append(args, vendorID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := r.DB.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.VendorID, &p.Name, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) GetProduct(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, vendor_id, name, price_cents, stock, active, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.VendorID, &p.Name, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// SetStock overwrites the stock level; reservations go through the
// inventory ledger, this is the administrative top-up path.
func (r *Repo) SetStock(ctx context.Context, id string, stock int) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		UPDATE products SET stock=$2, updated_at=now()
		WHERE id=$1
		RETURNING id, vendor_id, name, price_cents, stock, active, created_at, updated_at`,
		id, stock).
		Scan(&p.ID, &p.VendorID, &p.Name, &p.PriceCents, &p.Stock, &p.Active, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
