// Package promotions manages the time-boxed global discount. There is one
// record per promotion type; expiry is applied lazily the first time an
// expired record is read, not by a background timer.
package promotions

import (
	"context"
	"time"
)

// DefaultType is the single promotion modeled by the marketplace today.
// Type is the natural key, so further types cannot collide.
const DefaultType = "six-hit"

type Promotion struct {
	ID              string
	Type            string
	Active          bool
	DiscountPercent float64
	ActivatedAt     time.Time
	ExpiresAt       time.Time
}

// Store is the persistence contract. Expire must be conditional on the
// record still being active and past its expiry so concurrent readers
// cannot double-flip.
type Store interface {
	Get(ctx context.Context, promoType string) (*Promotion, error)
	Upsert(ctx context.Context, p Promotion) (*Promotion, error)
	Expire(ctx context.Context, id string, now time.Time) (*Promotion, error)
	SetInactive(ctx context.Context, promoType string) (*Promotion, error)
}

// Params carries optional overrides for Activate; nil fields fall back to
// the configured defaults.
type Params struct {
	DiscountPercent *float64
	DurationMinutes *int
}

type Service struct {
	Store Store

	// Defaults applied when Activate is called without overrides.
	DefaultDiscountPercent float64
	DefaultWindowMinutes   int

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Current returns the promotion record, applying lazy expiry first. The
// second return reports whether this read flipped the record inactive.
func (s *Service) Current(ctx context.Context, promoType string) (*Promotion, bool, error) {
	p, err := s.Store.Get(ctx, promoType)
	if err != nil || p == nil {
		return nil, false, err
	}
	if p.Active && !p.ExpiresAt.IsZero() && !p.ExpiresAt.After(s.now()) {
		expired, err := s.Store.Expire(ctx, p.ID, s.now())
		if err != nil {
			return nil, false, err
		}
		if expired != nil {
			return expired, true, nil
		}
		// another reader won the flip; re-read
		p, err = s.Store.Get(ctx, promoType)
		return p, false, err
	}
	return p, false, nil
}

// ActiveDiscount yields the effective discount percent and the promotion
// tag to stamp on orders, or zero values when no promotion applies.
func (s *Service) ActiveDiscount(ctx context.Context, promoType string) (float64, string, error) {
	p, _, err := s.Current(ctx, promoType)
	if err != nil {
		return 0, "", err
	}
	if p == nil || !p.Active {
		return 0, "", nil
	}
	return p.DiscountPercent, p.Type, nil
}

// Activate upserts the record to active with a fresh window. A repeat call
// restarts the window, it never extends the previous one.
func (s *Service) Activate(ctx context.Context, promoType string, params Params) (*Promotion, error) {
	discount := s.DefaultDiscountPercent
	if params.DiscountPercent != nil {
		discount = *params.DiscountPercent
	}
	minutes := s.DefaultWindowMinutes
	if params.DurationMinutes != nil {
		minutes = *params.DurationMinutes
	}

	activatedAt := s.now()
	return s.Store.Upsert(ctx, Promotion{
		Type:            promoType,
		Active:          true,
		DiscountPercent: discount,
		ActivatedAt:     activatedAt,
		ExpiresAt:       activatedAt.Add(time.Duration(minutes) * time.Minute),
	})
}

// Deactivate flips the record inactive; absent record is a no-op and
// returns nil.
func (s *Service) Deactivate(ctx context.Context, promoType string) (*Promotion, error) {
	return s.Store.SetInactive(ctx, promoType)
}
