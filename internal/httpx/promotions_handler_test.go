package httpx

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/quickbite/order-intake/internal/promotions"
)

type fakeLifecycle struct {
	current *promotions.Promotion
	params  promotions.Params
}

func (f *fakeLifecycle) Current(context.Context, string) (*promotions.Promotion, bool, error) {
	return f.current, false, nil
}

func (f *fakeLifecycle) Activate(_ context.Context, promoType string, params promotions.Params) (*promotions.Promotion, error) {
	f.params = params
	f.current = &promotions.Promotion{
		Type: promoType, Active: true, DiscountPercent: 60,
		ActivatedAt: time.Now(), ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	return f.current, nil
}

func (f *fakeLifecycle) Deactivate(context.Context, string) (*promotions.Promotion, error) {
	if f.current == nil {
		return nil, nil
	}
	f.current.Active = false
	return f.current, nil
}

func promoRequest(h *PromotionsHandler, method, path, body string) *httptest.ResponseRecorder {
	r := NewRouter(nil)
	h.Register(r)
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestGetPromotion_AbsentRecord(t *testing.T) {
	h := &PromotionsHandler{Promos: &fakeLifecycle{}}
	rec := promoRequest(h, http.MethodGet, "/promotions/six-hit", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"isActive":false`)
	require.Contains(t, rec.Body.String(), `"type":"six-hit"`)
}

func TestActivate_ZeroDurationAllowed(t *testing.T) {
	lc := &fakeLifecycle{}
	h := &PromotionsHandler{Promos: lc}
	rec := promoRequest(h, http.MethodPost, "/promotions/six-hit/activate",
		`{"durationMinutes":0}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, lc.params.DurationMinutes)
	require.Equal(t, 0, *lc.params.DurationMinutes)
}

func TestActivate_RejectsNonPositiveDiscount(t *testing.T) {
	h := &PromotionsHandler{Promos: &fakeLifecycle{}}
	rec := promoRequest(h, http.MethodPost, "/promotions/six-hit/activate",
		`{"discountPercent":0}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
}

func TestDeactivate_AbsentIsNoop(t *testing.T) {
	h := &PromotionsHandler{Promos: &fakeLifecycle{}}
	rec := promoRequest(h, http.MethodPost, "/promotions/six-hit/deactivate", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"isActive":false`)
}
