package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema is applied at startup; every statement is idempotent.
var statements = []string{
	`CREATE TABLE IF NOT EXISTS vendors (
		id          UUID PRIMARY KEY,
		name        TEXT NOT NULL,
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		vendor_id   UUID NOT NULL REFERENCES vendors(id),
		name        TEXT NOT NULL,
		price_cents BIGINT NOT NULL CHECK (price_cents >= 0),
		stock       INTEGER NOT NULL CHECK (stock >= 0),
		active      BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
		UNIQUE (vendor_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id               UUID PRIMARY KEY,
		user_id          TEXT NOT NULL,
		vendor_id        UUID NOT NULL REFERENCES vendors(id),
		status           TEXT NOT NULL,
		subtotal_cents   BIGINT NOT NULL,
		discount_percent DOUBLE PRECISION NOT NULL,
		discount_cents   BIGINT NOT NULL,
		total_cents      BIGINT NOT NULL,
		promotion_type   TEXT,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_orders_vendor_created
		ON orders (vendor_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id    UUID NOT NULL REFERENCES orders(id),
		product_id  UUID,
		name        TEXT NOT NULL,
		qty         INTEGER NOT NULL CHECK (qty > 0),
		price_cents BIGINT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS promotions (
		id               UUID PRIMARY KEY,
		type             TEXT NOT NULL UNIQUE,
		active           BOOLEAN NOT NULL DEFAULT FALSE,
		discount_percent DOUBLE PRECISION NOT NULL,
		activated_at     TIMESTAMPTZ,
		expires_at       TIMESTAMPTZ,
		updated_at       TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
}

func Migrate(ctx context.Context, db *pgxpool.Pool) error {
	for _, stmt := range statements {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
