package httpx

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/quickbite/order-intake/internal/redisx"
)

func NewRouter(limiter *redisx.Limiter) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Logger)
	r.Use(middleware.Timeout(15 * time.Second))
	if limiter != nil {
		r.Use(rateLimit(limiter))
	}
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

func rateLimit(l *redisx.Limiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(r.Context(), r.RemoteAddr) {
				writeError(w, r, http.StatusTooManyRequests,
					"RATE_LIMITED", "Too many requests, slow down.", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
