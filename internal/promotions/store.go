package promotions

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGStore persists promotion records keyed by type.
type PGStore struct{ DB *pgxpool.Pool }

const promoColumns = `id, type, active, discount_percent, activated_at, expires_at`

func scanPromotion(row pgx.Row) (*Promotion, error) {
	var (
		p        Promotion
		act, exp *time.Time
	)
	err := row.Scan(&p.ID, &p.Type, &p.Active, &p.DiscountPercent, &act, &exp)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if act != nil {
		p.ActivatedAt = *act
	}
	if exp != nil {
		p.ExpiresAt = *exp
	}
	return &p, nil
}

func (s *PGStore) Get(ctx context.Context, promoType string) (*Promotion, error) {
	return scanPromotion(s.DB.QueryRow(ctx,
		`SELECT `+promoColumns+` FROM promotions WHERE type=$1`, promoType))
}

func (s *PGStore) Upsert(ctx context.Context, p Promotion) (*Promotion, error) {
	return scanPromotion(s.DB.QueryRow(ctx, `
		INSERT INTO promotions(id, type, active, discount_percent, activated_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (type) DO UPDATE SET
			active = EXCLUDED.active,
			discount_percent = EXCLUDED.discount_percent,
			activated_at = EXCLUDED.activated_at,
			expires_at = EXCLUDED.expires_at,
			updated_at = now()
		RETURNING `+promoColumns,
		uuid.NewString(), p.Type, p.Active, p.DiscountPercent, p.ActivatedAt, p.ExpiresAt))
}

// Expire flips a single record inactive, conditional on it still being
// active and past expiry at the store. Returns nil when another reader
// already flipped it.
func (s *PGStore) Expire(ctx context.Context, id string, now time.Time) (*Promotion, error) {
	return scanPromotion(s.DB.QueryRow(ctx, `
		UPDATE promotions SET active=false, updated_at=now()
		WHERE id=$1 AND active AND expires_at <= $2
		RETURNING `+promoColumns,
		id, now))
}

func (s *PGStore) SetInactive(ctx context.Context, promoType string) (*Promotion, error) {
	return scanPromotion(s.DB.QueryRow(ctx, `
		UPDATE promotions SET active=false, updated_at=now()
		WHERE type=$1
		RETURNING `+promoColumns, promoType))
}
