package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickbite/order-intake/internal/orders"
)

// Every response carries the same envelope: a success flag, either data or
// a machine-readable error, and the request id for correlation.

type errorBody struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type envelope struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *errorBody `json:"error,omitempty"`
	RequestID string     `json:"requestId,omitempty"`
}

func writeData(w http.ResponseWriter, r *http.Request, status int, data any) {
	writeJSON(w, status, envelope{
		Success:   true,
		Data:      data,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string, details map[string]any) {
	writeJSON(w, status, envelope{
		Success: false,
		Error: &errorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
		RequestID: middleware.GetReqID(r.Context()),
	})
}

// writeDomainError maps a classified workflow error onto the wire.
// Anything that is not an orders.Error is an unexpected store failure.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var e *orders.Error
	if !errors.As(err, &e) {
		writeError(w, r, http.StatusInternalServerError,
			string(orders.CodeInternal), "Internal server error", nil)
		return
	}
	writeError(w, r, statusFor(e.Code), string(e.Code), e.Message, e.Details)
}

func statusFor(code orders.Code) int {
	switch code {
	case orders.CodeValidation:
		return http.StatusBadRequest
	case orders.CodeNotFound, orders.CodeProductNotFound:
		return http.StatusNotFound
	case orders.CodeProductInactive, orders.CodeOutOfStock, orders.CodeConflict:
		return http.StatusConflict
	case orders.CodeVendorCapacity:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
