package orders

import "time"

// LineItem is a priced order line. ProductID is empty for off-catalog
// items supplied inline by the caller.
type LineItem struct {
	ProductID  string
	Name       string
	PriceCents int64
	Qty        int
}

type Order struct {
	ID              string
	UserID          string
	VendorID        string
	Items           []LineItem
	SubtotalCents   int64
	DiscountPercent float64
	DiscountCents   int64
	TotalCents      int64
	PromotionType   string
	Status          Status
	CreatedAt       time.Time
}
