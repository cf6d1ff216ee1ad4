package orders

import "fmt"

// Code is the machine-readable error class surfaced at the API boundary.
// Every workflow failure is classified into exactly one of these; raw
// store errors never cross the boundary except as CodeInternal.
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeNotFound        Code = "NOT_FOUND"
	CodeProductNotFound Code = "PRODUCT_NOT_FOUND"
	CodeProductInactive Code = "PRODUCT_INACTIVE"
	CodeOutOfStock      Code = "OUT_OF_STOCK"
	CodeVendorCapacity  Code = "VENDOR_CAPACITY_REACHED"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL_ERROR"
)

type Error struct {
	Code    Code
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func Validation(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

func NotFound(msg string) *Error {
	return &Error{Code: CodeNotFound, Message: msg}
}

func Conflict(msg string) *Error {
	return &Error{Code: CodeConflict, Message: msg}
}

func Internal(err error) *Error {
	return &Error{Code: CodeInternal, Message: err.Error()}
}

func OutOfStock(productID string, available, requested int) *Error {
	return &Error{
		Code:    CodeOutOfStock,
		Message: "Insufficient stock for the requested item.",
		Details: map[string]any{
			"productId":         productID,
			"availableStock":    available,
			"requestedQuantity": requested,
		},
	}
}
