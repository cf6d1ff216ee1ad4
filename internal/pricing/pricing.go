// Package pricing computes order totals on cents-scaled integers so that
// currency math never touches binary floating point beyond the JSON
// boundary conversions.
package pricing

import "math"

type Item struct {
	PriceCents int64
	Qty        int
}

type Totals struct {
	SubtotalCents int64
	DiscountCents int64
	TotalCents    int64
}

// ComputeTotals prices the resolved item list under a percentage discount.
// The discount is rounded half-up on the cents value; the total never goes
// below zero.
func ComputeTotals(items []Item, discountPercent float64) Totals {
	var subtotal int64
	for _, it := range items {
		subtotal += it.PriceCents * int64(it.Qty)
	}

	discount := roundHalfUp(float64(subtotal) * discountPercent / 100)
	total := subtotal - discount
	if total < 0 {
		total = 0
	}
	return Totals{
		SubtotalCents: subtotal,
		DiscountCents: discount,
		TotalCents:    total,
	}
}

// Cents converts a dollar amount from the wire into cents, round half-up.
func Cents(dollars float64) int64 {
	return roundHalfUp(dollars * 100)
}

// Dollars renders cents as a dollar amount for the wire.
func Dollars(cents int64) float64 {
	return float64(cents) / 100
}

func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}
