package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/pricing"
	"toolshare-backend/internal/security"
	"toolshare-backend/internal/service"
)

// stubQuoteService returns canned pricing results keyed off the inputs.
type stubQuoteService struct{}

func (s *stubQuoteService) BuildQuote(ctx context.Context, toolID int32, window domain.RentalWindow, insurancePlanID, promoCode string) (*domain.Quote, error) {
	if toolID == 99 {
		return nil, service.ErrToolNotFound
	}
	if !window.IsValid() {
		return nil, pricing.ErrInvalidWindow
	}
	if toolID == 7 {
		return nil, &pricing.MissingTierError{Tier: "hourly"}
	}
	return &domain.Quote{
		Tier:           domain.RateTierDaily,
		BaseRentalCost: decimal.NewFromInt(50),
		GrandTotal:     decimal.NewFromInt(105),
	}, nil
}

func (s *stubQuoteService) ValidatePromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	if code != "WELCOME10" {
		return nil, pricing.ErrInvalidPromoCode
	}
	return &domain.PromoCode{Code: "WELCOME10", DiscountType: domain.DiscountTypePercentage, Value: decimal.RequireFromString("0.10")}, nil
}

func (s *stubQuoteService) ListInsurancePlans(ctx context.Context) ([]domain.InsurancePlan, error) {
	return []domain.InsurancePlan{{ID: "basic", Name: "Basic Protection"}}, nil
}

// stubCheckoutService keeps real sessions so handler responses reflect
// genuine state machine behavior.
type stubCheckoutService struct {
	sessions  map[string]*checkout.Session
	submitErr error
}

func newStubCheckoutService() *stubCheckoutService {
	return &stubCheckoutService{sessions: make(map[string]*checkout.Session)}
}

func (s *stubCheckoutService) recompute(ctx context.Context, toolID int32, in checkout.Inputs) (*domain.Quote, error) {
	if !in.Window.IsValid() {
		return nil, pricing.ErrInvalidWindow
	}
	return &domain.Quote{Tier: domain.RateTierDaily, GrandTotal: decimal.NewFromInt(105)}, nil
}

func (s *stubCheckoutService) OpenSession(ctx context.Context, toolID, renterID int32) (*checkout.Session, error) {
	if toolID == 99 {
		return nil, service.ErrToolNotFound
	}
	sess := checkout.NewSession(fmt.Sprintf("sess-%d", len(s.sessions)+1), toolID, renterID, s.recompute, func(m checkout.PaymentMethod) bool {
		return len(m.Fields) > 0
	})
	s.sessions[sess.ID] = sess
	return sess, nil
}

func (s *stubCheckoutService) GetSession(id string) (*checkout.Session, error) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, service.ErrSessionNotFound
	}
	return sess, nil
}

func (s *stubCheckoutService) UpdateSession(ctx context.Context, id string, u checkout.Update) (*checkout.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	return sess, sess.Apply(ctx, u)
}

func (s *stubCheckoutService) ApplySessionPromo(ctx context.Context, id, code string) (*checkout.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if code != "WELCOME10" {
		return sess, pricing.ErrInvalidPromoCode
	}
	return sess, sess.ApplyPromo(ctx, code)
}

func (s *stubCheckoutService) SubmitSession(ctx context.Context, id string) (*checkout.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	err = sess.Submit(ctx, func(ctx context.Context, snap checkout.SubmitSnapshot) (int32, error) {
		if s.submitErr != nil {
			return 0, s.submitErr
		}
		return 42, nil
	})
	return sess, err
}

type testEnv struct {
	server   *httptest.Server
	token    string
	checkout *stubCheckoutService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	tokens := security.NewTokenManager("0123456789abcdef0123456789abcdef", 60)
	token, err := tokens.GenerateAccessToken(2, "rita@example.com")
	require.NoError(t, err)

	checkoutSvc := newStubCheckoutService()
	router := NewRouter(Handlers{
		Quotes:   &stubQuoteService{},
		Checkout: checkoutSvc,
		Tokens:   tokens,
	})

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, token: token, checkout: checkoutSvc}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, e.server.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+e.token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var decoded map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func TestQuoteEndpoint(t *testing.T) {
	env := newTestEnv(t)
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	t.Run("Success", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{
			"tool_id":  1,
			"start_at": start,
			"end_at":   start.Add(48 * time.Hour),
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "DAILY", body["tier"])
	})

	t.Run("InvalidWindow", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{
			"tool_id":  1,
			"start_at": start,
			"end_at":   start.Add(-time.Hour),
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_WINDOW", errObj["code"])
	})

	t.Run("MissingTier", func(t *testing.T) {
		resp, body := env.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{
			"tool_id":  7,
			"start_at": start,
			"end_at":   start.Add(2 * time.Hour),
		})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "PRICING_UNAVAILABLE", errObj["code"])
	})

	t.Run("UnknownTool", func(t *testing.T) {
		resp, _ := env.do(t, http.MethodPost, "/api/v1/quotes", map[string]any{
			"tool_id":  99,
			"start_at": start,
			"end_at":   start.Add(2 * time.Hour),
		})
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, env.server.URL+"/api/v1/quotes", bytes.NewBufferString("{}"))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestCheckoutSessionEndpoints(t *testing.T) {
	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

	openSession := func(t *testing.T, env *testEnv) string {
		resp, body := env.do(t, http.MethodPost, "/api/v1/checkout/sessions", map[string]any{"tool_id": 1})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		return body["id"].(string)
	}

	t.Run("OpenAndUpdate", func(t *testing.T) {
		env := newTestEnv(t)
		id := openSession(t, env)

		resp, body := env.do(t, http.MethodPatch, "/api/v1/checkout/sessions/"+id, map[string]any{
			"start_at":        start,
			"end_at":          start.Add(48 * time.Hour),
			"agreed_to_terms": true,
		})
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "EDITING", body["state"])
		assert.NotNil(t, body["quote"])
	})

	t.Run("WindowFieldsMustPair", func(t *testing.T) {
		env := newTestEnv(t)
		id := openSession(t, env)

		resp, _ := env.do(t, http.MethodPatch, "/api/v1/checkout/sessions/"+id, map[string]any{
			"start_at": start,
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("SubmitValidationFailure", func(t *testing.T) {
		env := newTestEnv(t)
		id := openSession(t, env)

		resp, body := env.do(t, http.MethodPost, "/api/v1/checkout/sessions/"+id+"/submit", nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "VALIDATION_FAILED", errObj["code"])
		assert.NotEmpty(t, errObj["field_errors"])
	})

	t.Run("SubmitSuccess", func(t *testing.T) {
		env := newTestEnv(t)
		id := openSession(t, env)

		resp, _ := env.do(t, http.MethodPatch, "/api/v1/checkout/sessions/"+id, map[string]any{
			"start_at":        start,
			"end_at":          start.Add(48 * time.Hour),
			"agreed_to_terms": true,
			"payment_method":  map[string]any{"type": "card", "fields": map[string]string{"number": "4242"}},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)

		resp, body := env.do(t, http.MethodPost, "/api/v1/checkout/sessions/"+id+"/submit", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "SUCCEEDED", body["state"])
		assert.Equal(t, float64(42), body["booking_id"])
	})

	t.Run("InvalidPromoKeepsSession", func(t *testing.T) {
		env := newTestEnv(t)
		id := openSession(t, env)

		resp, body := env.do(t, http.MethodPost, "/api/v1/checkout/sessions/"+id+"/promo", map[string]any{"code": "BOGUS"})
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
		errObj := body["error"].(map[string]any)
		assert.Equal(t, "INVALID_PROMO", errObj["code"])
		assert.NotNil(t, body["session"])
	})

	t.Run("ForeignSessionHidden", func(t *testing.T) {
		env := newTestEnv(t)
		id := openSession(t, env)

		// A session opened by someone else is indistinguishable from a
		// missing one.
		other := checkout.NewSession("sess-other", 1, 999, env.checkout.recompute, nil)
		env.checkout.sessions[other.ID] = other

		resp, _ := env.do(t, http.MethodGet, "/api/v1/checkout/sessions/sess-other", nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)

		resp, _ = env.do(t, http.MethodGet, "/api/v1/checkout/sessions/"+id, nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}
