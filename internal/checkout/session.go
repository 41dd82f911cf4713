package checkout

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/qmuntal/stateless"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/pricing"
)

// PaymentMethod is the renter's selected payment instrument. Field
// validation belongs to the payment collaborator; the session only asks
// its predicate whether the fields are complete.
type PaymentMethod struct {
	Type   string            `json:"type"` // card, paypal, apple
	Fields map[string]string `json:"fields,omitempty"`
}

// Inputs is the full input set a quote is derived from.
type Inputs struct {
	Window          domain.RentalWindow
	InsurancePlanID string
	PromoCode       string
	AgreedToTerms   bool
	Payment         *PaymentMethod
}

// Update is a partial change to the session inputs. Nil fields are left
// untouched. Promo codes go through ApplyPromo instead so that a bad
// code cannot clobber an applied one.
type Update struct {
	Window          *domain.RentalWindow
	InsurancePlanID *string
	AgreedToTerms   *bool
	Payment         *PaymentMethod
}

// RecomputeFunc derives a fresh quote from the current inputs. It must be
// pure: same inputs, same quote.
type RecomputeFunc func(ctx context.Context, toolID int32, in Inputs) (*domain.Quote, error)

// PaymentCheckFunc is the payment collaborator's opaque completeness
// predicate for a selected payment method.
type PaymentCheckFunc func(m PaymentMethod) bool

// SubmitSnapshot is what the booking collaborator receives on submit.
type SubmitSnapshot struct {
	SessionID string
	ToolID    int32
	RenterID  int32
	Inputs    Inputs
	Quote     domain.Quote
}

// SubmitFunc performs the booking/payment call and returns the created
// booking id. It is the only I/O the session ever triggers.
type SubmitFunc func(ctx context.Context, snap SubmitSnapshot) (int32, error)

// Session owns one renter's checkout inputs and the most recently derived
// quote. The quote is replaced wholesale on every input change, never
// mutated in place.
type Session struct {
	ID       string
	ToolID   int32
	RenterID int32

	mu            sync.Mutex
	sm            *stateless.StateMachine
	inputs        Inputs
	quote         *domain.Quote
	quoteErr      error
	fieldErrors   map[string]string
	failureReason string
	bookingID     int32
	recompute     RecomputeFunc
	paymentCheck  PaymentCheckFunc
	createdOn     time.Time
	updatedOn     time.Time
}

func NewSession(id string, toolID, renterID int32, recompute RecomputeFunc, paymentCheck PaymentCheckFunc) *Session {
	now := time.Now()
	return &Session{
		ID:           id,
		ToolID:       toolID,
		RenterID:     renterID,
		sm:           newMachine(),
		recompute:    recompute,
		paymentCheck: paymentCheck,
		createdOn:    now,
		updatedOn:    now,
	}
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sm.MustState().(State)
}

// Snapshot returns the current inputs, quote and quote error. The quote
// pointer is safe to share because quotes are immutable once derived.
func (s *Session) Snapshot() (Inputs, *domain.Quote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inputs, s.quote, s.quoteErr
}

func (s *Session) FieldErrors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.fieldErrors))
	for k, v := range s.fieldErrors {
		out[k] = v
	}
	return out
}

func (s *Session) FailureReason() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failureReason
}

func (s *Session) BookingID() int32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bookingID
}

func (s *Session) UpdatedOn() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updatedOn
}

// Apply merges an input change and synchronously recomputes the quote.
// Allowed in Editing, and in Failed (which returns the session to
// Editing first). A failed recompute leaves the session editable with no
// quote; submission stays gated until the inputs produce one.
func (s *Session) Apply(ctx context.Context, u Update) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEditingLocked(); err != nil {
		return err
	}

	if u.Window != nil {
		s.inputs.Window = *u.Window
	}
	if u.InsurancePlanID != nil {
		s.inputs.InsurancePlanID = *u.InsurancePlanID
	}
	if u.AgreedToTerms != nil {
		s.inputs.AgreedToTerms = *u.AgreedToTerms
	}
	if u.Payment != nil {
		s.inputs.Payment = u.Payment
	}

	s.recomputeLocked(ctx)
	return nil
}

// ApplyPromo validates and applies a promo code. An unrecognized code is
// reported but leaves the previously applied promo (and its quote) in
// place.
func (s *Session) ApplyPromo(ctx context.Context, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ensureEditingLocked(); err != nil {
		return err
	}

	candidate := s.inputs
	candidate.PromoCode = code
	quote, err := s.recompute(ctx, s.ToolID, candidate)
	if errors.Is(err, pricing.ErrInvalidPromoCode) {
		return err
	}

	s.inputs.PromoCode = code
	s.quote = quote
	s.quoteErr = err
	s.updatedOn = time.Now()
	return err
}

// Submit drives the session through Validating and, when every predicate
// holds, into Submitting, where submitFn performs the booking call. A
// submit while one is already in flight is a no-op. The caller bounds
// submitFn with a deadline on ctx.
func (s *Session) Submit(ctx context.Context, submitFn SubmitFunc) error {
	s.mu.Lock()

	switch s.sm.MustState().(State) {
	case StateSubmitting:
		// Second submit intent while in flight: ignore.
		s.mu.Unlock()
		return nil
	case StateSucceeded:
		s.mu.Unlock()
		return ErrSessionClosed
	case StateFailed:
		if err := s.sm.Fire(triggerEdit); err != nil {
			s.mu.Unlock()
			return err
		}
	}

	if err := s.sm.Fire(triggerSubmit); err != nil {
		s.mu.Unlock()
		return err
	}

	if errs := s.validateLocked(); len(errs) > 0 {
		s.fieldErrors = errs
		if err := s.sm.Fire(triggerValidationFailed); err != nil {
			s.mu.Unlock()
			return err
		}
		s.mu.Unlock()
		return ErrValidationFailed
	}
	s.fieldErrors = nil

	if err := s.sm.Fire(triggerValidationPassed); err != nil {
		s.mu.Unlock()
		return err
	}

	snap := SubmitSnapshot{
		SessionID: s.ID,
		ToolID:    s.ToolID,
		RenterID:  s.RenterID,
		Inputs:    s.inputs,
		Quote:     *s.quote,
	}
	s.mu.Unlock()

	// The only I/O in the session lifecycle. State stays Submitting for
	// its duration, which is what makes retries no-ops.
	bookingID, err := submitFn(ctx, snap)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.updatedOn = time.Now()
	if err != nil {
		s.failureReason = err.Error()
		if fireErr := s.sm.Fire(triggerBookingFailed); fireErr != nil {
			return fireErr
		}
		return err
	}
	s.bookingID = bookingID
	s.failureReason = ""
	return s.sm.Fire(triggerBookingConfirmed)
}

func (s *Session) ensureEditingLocked() error {
	switch s.sm.MustState().(State) {
	case StateEditing:
		return s.sm.Fire(triggerEdit)
	case StateFailed:
		return s.sm.Fire(triggerEdit)
	case StateSucceeded:
		return ErrSessionClosed
	default:
		return ErrSessionBusy
	}
}

func (s *Session) recomputeLocked(ctx context.Context) {
	quote, err := s.recompute(ctx, s.ToolID, s.inputs)
	s.quote = quote
	s.quoteErr = err
	s.updatedOn = time.Now()
}

func (s *Session) validateLocked() map[string]string {
	errs := make(map[string]string)

	if !s.inputs.Window.IsValid() {
		errs["rental_window"] = "end must be after start"
	} else if s.quote == nil || s.quoteErr != nil {
		errs["rental_window"] = "no quote available for the selected period"
	}
	if !s.inputs.AgreedToTerms {
		errs["terms"] = "rental agreement must be accepted"
	}
	if s.inputs.Payment == nil {
		errs["payment_method"] = "payment method is required"
	} else if s.paymentCheck != nil && !s.paymentCheck(*s.inputs.Payment) {
		errs["payment_method"] = "payment details are incomplete"
	}

	return errs
}
