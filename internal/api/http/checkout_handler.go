package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/pricing"
	"toolshare-backend/internal/service"
)

// CheckoutHandler exposes the interactive checkout session lifecycle.
type CheckoutHandler struct {
	sessions service.CheckoutService
}

func NewCheckoutHandler(sessions service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions}
}

type openSessionRequest struct {
	ToolID int32 `json:"tool_id" validate:"required,gt=0"`
}

type paymentMethodRequest struct {
	Type   string            `json:"type" validate:"required,oneof=card paypal apple"`
	Fields map[string]string `json:"fields,omitempty"`
}

type updateSessionRequest struct {
	StartAt         *time.Time            `json:"start_at,omitempty"`
	EndAt           *time.Time            `json:"end_at,omitempty"`
	InsurancePlanID *string               `json:"insurance_plan_id,omitempty"`
	AgreedToTerms   *bool                 `json:"agreed_to_terms,omitempty"`
	PaymentMethod   *paymentMethodRequest `json:"payment_method,omitempty"`
}

type applyPromoRequest struct {
	Code string `json:"code" validate:"required"`
}

type sessionPaymentView struct {
	Type string `json:"type"`
}

type sessionView struct {
	ID              string              `json:"id"`
	ToolID          int32               `json:"tool_id"`
	State           string              `json:"state"`
	Window          domain.RentalWindow `json:"window"`
	InsurancePlanID string              `json:"insurance_plan_id,omitempty"`
	PromoCode       string              `json:"promo_code,omitempty"`
	AgreedToTerms   bool                `json:"agreed_to_terms"`
	PaymentMethod   *sessionPaymentView `json:"payment_method,omitempty"`
	Quote           *domain.Quote       `json:"quote,omitempty"`
	QuoteError      string              `json:"quote_error,omitempty"`
	FieldErrors     map[string]string   `json:"field_errors,omitempty"`
	FailureReason   string              `json:"failure_reason,omitempty"`
	BookingID       int32               `json:"booking_id,omitempty"`
}

// newSessionView projects a session for API consumption. Payment fields
// are never echoed back, only the method type.
func newSessionView(s *checkout.Session) sessionView {
	inputs, quote, quoteErr := s.Snapshot()

	view := sessionView{
		ID:              s.ID,
		ToolID:          s.ToolID,
		State:           string(s.State()),
		Window:          inputs.Window,
		InsurancePlanID: inputs.InsurancePlanID,
		PromoCode:       inputs.PromoCode,
		AgreedToTerms:   inputs.AgreedToTerms,
		Quote:           quote,
		FieldErrors:     s.FieldErrors(),
		FailureReason:   s.FailureReason(),
		BookingID:       s.BookingID(),
	}
	if inputs.Payment != nil {
		view.PaymentMethod = &sessionPaymentView{Type: inputs.Payment.Type}
	}
	if quoteErr != nil {
		view.QuoteError = quoteErr.Error()
	}
	if len(view.FieldErrors) == 0 {
		view.FieldErrors = nil
	}
	return view
}

func (h *CheckoutHandler) OpenSession(w http.ResponseWriter, r *http.Request) {
	renterID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity")
		return
	}

	var req openSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	sess, err := h.sessions.OpenSession(r.Context(), req.ToolID, renterID)
	if err != nil {
		writeSessionError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newSessionView(sess))
}

func (h *CheckoutHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *CheckoutHandler) UpdateSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var req updateSessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}
	if (req.StartAt == nil) != (req.EndAt == nil) {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", "start_at and end_at must be set together")
		return
	}

	update := checkout.Update{
		InsurancePlanID: req.InsurancePlanID,
		AgreedToTerms:   req.AgreedToTerms,
	}
	if req.StartAt != nil {
		update.Window = &domain.RentalWindow{Start: *req.StartAt, End: *req.EndAt}
	}
	if req.PaymentMethod != nil {
		update.Payment = &checkout.PaymentMethod{Type: req.PaymentMethod.Type, Fields: req.PaymentMethod.Fields}
	}

	sess, err := h.sessions.UpdateSession(r.Context(), sess.ID, update)
	if err != nil {
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *CheckoutHandler) ApplyPromo(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	var req applyPromoRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "BAD_REQUEST", err.Error())
		return
	}

	sess, err := h.sessions.ApplySessionPromo(r.Context(), sess.ID, req.Code)
	if err != nil {
		// An unrecognized code is reported without discarding the session
		// view; the previously applied promo stays in effect.
		if errors.Is(err, pricing.ErrInvalidPromoCode) {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
				"error":   errorBody{Code: "INVALID_PROMO", Message: err.Error()},
				"session": newSessionView(sess),
			})
			return
		}
		writeSessionError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

func (h *CheckoutHandler) SubmitSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.ownedSession(w, r)
	if !ok {
		return
	}

	sess, err := h.sessions.SubmitSession(r.Context(), sess.ID)
	if err != nil {
		switch {
		case errors.Is(err, checkout.ErrValidationFailed):
			writeFieldErrors(w, sess.FieldErrors())
		case errors.Is(err, checkout.ErrSessionClosed):
			writeError(w, http.StatusConflict, "SESSION_CLOSED", err.Error())
		default:
			// Payment or booking failure: the session is in Failed and the
			// renter can edit and retry.
			writeJSON(w, http.StatusPaymentRequired, map[string]any{
				"error":   errorBody{Code: "SUBMIT_FAILED", Message: err.Error()},
				"session": newSessionView(sess),
			})
		}
		return
	}
	writeJSON(w, http.StatusOK, newSessionView(sess))
}

// ownedSession loads the session named in the path and enforces that the
// caller opened it.
func (h *CheckoutHandler) ownedSession(w http.ResponseWriter, r *http.Request) (*checkout.Session, bool) {
	renterID, ok := userIDFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing caller identity")
		return nil, false
	}

	sess, err := h.sessions.GetSession(mux.Vars(r)["id"])
	if err != nil {
		writeSessionError(w, err)
		return nil, false
	}
	if sess.RenterID != renterID {
		writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", "checkout session not found")
		return nil, false
	}
	return sess, true
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, "SESSION_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrToolNotFound):
		writeError(w, http.StatusNotFound, "TOOL_NOT_FOUND", err.Error())
	case errors.Is(err, service.ErrToolUnavailable):
		writeError(w, http.StatusConflict, "TOOL_UNAVAILABLE", err.Error())
	case errors.Is(err, checkout.ErrSessionBusy):
		writeError(w, http.StatusConflict, "SESSION_BUSY", err.Error())
	case errors.Is(err, checkout.ErrSessionClosed):
		writeError(w, http.StatusConflict, "SESSION_CLOSED", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", err.Error())
	}
}
