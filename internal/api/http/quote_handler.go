package http

import (
	"errors"
	"net/http"
	"time"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/pricing"
	"toolshare-backend/internal/service"
)

// QuoteHandler exposes stateless quoting: price a window without opening
// a checkout session.
type QuoteHandler struct {
	quotes service.QuoteService
}

func NewQuoteHandler(quotes service.QuoteService) *QuoteHandler {
	return &QuoteHandler{quotes: quotes}
}

type quoteRequest struct {
	ToolID          int32     `json:"tool_id" validate:"required,gt=0"`
	StartAt         time.Time `json:"start_at" validate:"required"`
	EndAt           time.Time `json:"end_at" validate:"required"`
	InsurancePlanID string    `json:"insurance_plan_id,omitempty"`
	PromoCode       string    `json:"promo_code,omitempty"`
}

func (h *QuoteHandler) BuildQuote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	window := domain.RentalWindow{Start: req.StartAt, End: req.EndAt}
	quote, err := h.quotes.BuildQuote(r.Context(), req.ToolID, window, req.InsurancePlanID, req.PromoCode)
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, quote)
}

type promoValidateRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *QuoteHandler) ValidatePromo(w http.ResponseWriter, r *http.Request) {
	var req promoValidateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	promo, err := h.quotes.ValidatePromo(r.Context(), req.Code)
	if err != nil {
		writeQuoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, promo)
}

func (h *QuoteHandler) ListInsurancePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.quotes.ListInsurancePlans(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "failed to list insurance plans")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"plans": plans})
}

// writeQuoteError maps pricing failures onto HTTP statuses. A missing
// rate tier is a listing configuration problem, so it gets its own code.
func writeQuoteError(w http.ResponseWriter, err error) {
	var tierErr *pricing.MissingTierError
	switch {
	case errors.Is(err, service.ErrToolNotFound):
		writeError(w, http.StatusNotFound, "TOOL_NOT_FOUND", err.Error())
	case errors.Is(err, pricing.ErrInvalidWindow):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_WINDOW", err.Error())
	case errors.Is(err, pricing.ErrInvalidPromoCode):
		writeError(w, http.StatusUnprocessableEntity, "INVALID_PROMO", err.Error())
	case errors.As(err, &tierErr):
		writeError(w, http.StatusUnprocessableEntity, "PRICING_UNAVAILABLE", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
