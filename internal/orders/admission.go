package orders

import (
	"context"
	"fmt"
	"time"
)

type OrderCounter interface {
	CountVendorOrdersSince(ctx context.Context, vendorID string, since time.Time) (int, error)
}

// AdmissionController throttles a vendor to at most Limit orders inside
// the trailing Window. Count-then-decide is a soft gate: two concurrent
// requests can both read a count just under the ceiling and both be
// admitted. That race is accepted, availability wins over strict
// enforcement here.
type AdmissionController struct {
	Orders  OrderCounter
	Limit   int
	Window  time.Duration
	Enforce bool

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func (a *AdmissionController) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}

func (a *AdmissionController) Check(ctx context.Context, vendorID string) error {
	if !a.Enforce {
		return nil
	}
	since := a.now().Add(-a.Window)
	n, err := a.Orders.CountVendorOrdersSince(ctx, vendorID, since)
	if err != nil {
		return Internal(err)
	}
	if n >= a.Limit {
		return &Error{
			Code:    CodeVendorCapacity,
			Message: fmt.Sprintf("Vendor order capacity reached for the last %d minutes.", int(a.Window.Minutes())),
		}
	}
	return nil
}
