package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/logger"
	"toolshare-backend/internal/repository"
)

var (
	ErrSessionNotFound = errors.New("checkout session not found")
	ErrToolUnavailable = errors.New("tool is not available for rental")
)

type checkoutService struct {
	sessions      *checkout.Store
	quotes        QuoteService
	toolRepo      repository.ToolRepository
	userRepo      repository.UserRepository
	bookingRepo   repository.BookingRepository
	noteRepo      repository.NotificationRepository
	emailSvc      EmailService
	gateway       PaymentGateway
	submitTimeout time.Duration
}

func NewCheckoutService(
	sessions *checkout.Store,
	quotes QuoteService,
	toolRepo repository.ToolRepository,
	userRepo repository.UserRepository,
	bookingRepo repository.BookingRepository,
	noteRepo repository.NotificationRepository,
	emailSvc EmailService,
	gateway PaymentGateway,
	submitTimeout time.Duration,
) CheckoutService {
	if submitTimeout <= 0 {
		submitTimeout = 30 * time.Second
	}
	return &checkoutService{
		sessions:      sessions,
		quotes:        quotes,
		toolRepo:      toolRepo,
		userRepo:      userRepo,
		bookingRepo:   bookingRepo,
		noteRepo:      noteRepo,
		emailSvc:      emailSvc,
		gateway:       gateway,
		submitTimeout: submitTimeout,
	}
}

func (s *checkoutService) OpenSession(ctx context.Context, toolID, renterID int32) (*checkout.Session, error) {
	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}
	if tool.Status != domain.ToolStatusAvailable {
		return nil, ErrToolUnavailable
	}

	recompute := func(ctx context.Context, toolID int32, in checkout.Inputs) (*domain.Quote, error) {
		return s.quotes.BuildQuote(ctx, toolID, in.Window, in.InsurancePlanID, in.PromoCode)
	}

	sess := checkout.NewSession(uuid.NewString(), toolID, renterID, recompute, s.gateway.FieldsComplete)
	s.sessions.Put(sess)
	logger.Info("Checkout session opened", "session_id", sess.ID, "tool_id", toolID, "renter_id", renterID)
	return sess, nil
}

func (s *checkoutService) GetSession(id string) (*checkout.Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

func (s *checkoutService) UpdateSession(ctx context.Context, id string, u checkout.Update) (*checkout.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	if err := sess.Apply(ctx, u); err != nil {
		return sess, err
	}
	return sess, nil
}

func (s *checkoutService) ApplySessionPromo(ctx context.Context, id, code string) (*checkout.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}
	return sess, sess.ApplyPromo(ctx, code)
}

func (s *checkoutService) SubmitSession(ctx context.Context, id string) (*checkout.Session, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return nil, err
	}

	// The gateway call gets a hard deadline; on expiry the session lands
	// in Failed and the renter can retry from Editing.
	submitCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	defer cancel()

	if err := sess.Submit(submitCtx, s.performSubmit); err != nil {
		return sess, err
	}
	return sess, nil
}

// performSubmit is the session's SubmitFunc: authorize payment, persist
// the booking snapshot, then fan out notifications.
func (s *checkoutService) performSubmit(ctx context.Context, snap checkout.SubmitSnapshot) (int32, error) {
	tool, err := s.toolRepo.GetByID(ctx, snap.ToolID)
	if err != nil {
		return 0, fmt.Errorf("loading tool: %w", err)
	}

	conf, err := s.gateway.Authorize(ctx, PaymentRequest{
		IdempotencyKey: snap.SessionID,
		ToolID:         snap.ToolID,
		RenterID:       snap.RenterID,
		Amount:         snap.Quote.GrandTotal,
		Method:         *snap.Inputs.Payment,
		Description:    fmt.Sprintf("Rental of %s (%s)", tool.Name, snap.Quote.DurationDescription),
	})
	if err != nil {
		logger.Warn("Payment authorization failed", "session_id", snap.SessionID, "error", err)
		return 0, err
	}

	booking := &domain.Booking{
		ToolID:          snap.ToolID,
		RenterID:        snap.RenterID,
		OwnerID:         tool.OwnerID,
		StartAt:         snap.Inputs.Window.Start,
		EndAt:           snap.Inputs.Window.End,
		BaseRentalCost:  snap.Quote.BaseRentalCost,
		InsuranceCost:   snap.Quote.InsuranceCost,
		DiscountAmount:  snap.Quote.DiscountAmount,
		PlatformFee:     snap.Quote.PlatformFee,
		SecurityDeposit: snap.Quote.SecurityDeposit,
		GrandTotal:      snap.Quote.GrandTotal,
		InsurancePlanID: snap.Inputs.InsurancePlanID,
		PromoCode:       snap.Inputs.PromoCode,
		ConfirmationID:  conf.ID,
		Status:          domain.BookingStatusConfirmed,
		PaymentStatus:   domain.PaymentStatusHeldInEscrow,
		DepositStatus:   domain.DepositStatusHeld,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return 0, fmt.Errorf("persisting booking: %w", err)
	}

	s.sessions.Delete(snap.SessionID)
	logger.Info("Booking confirmed", "booking_id", booking.ID, "confirmation_id", conf.ID, "grand_total", booking.GrandTotal)

	// Notification fan-out is best effort; the booking already exists.
	renter, _ := s.userRepo.GetByID(ctx, snap.RenterID)
	if renter != nil {
		_ = s.emailSvc.SendBookingConfirmation(ctx, renter.Email, renter.Name, tool.Name, booking)
	}
	_ = s.noteRepo.Create(ctx, &domain.Notification{
		UserID:  tool.OwnerID,
		Type:    domain.NotificationTypeBooking,
		Title:   "New Booking",
		Message: fmt.Sprintf("%s was booked for %s", tool.Name, snap.Quote.DurationDescription),
	})

	return booking.ID, nil
}
