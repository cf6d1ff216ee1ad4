package catalog

import "time"

type Vendor struct {
	ID        string
	Name      string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Product struct {
	ID         string
	VendorID   string
	Name       string
	PriceCents int64
	Stock      int
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
