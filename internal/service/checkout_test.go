package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/service"
)

type checkoutFixture struct {
	svc      service.CheckoutService
	sessions *checkout.Store
	tools    *fakeToolRepo
	bookings *fakeBookingRepo
	notes    *fakeNoteRepo
	email    *fakeEmailService
	gateway  *fakeGateway
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()

	tools := &fakeToolRepo{tools: map[int32]*domain.Tool{1: testTool()}}
	users := &fakeUserRepo{users: map[int32]*domain.User{
		2: {ID: 2, Name: "Rita Renter", Email: "rita@example.com"},
	}}
	bookings := &fakeBookingRepo{}
	notes := &fakeNoteRepo{}
	email := &fakeEmailService{}
	gateway := &fakeGateway{}

	quotes := service.NewQuoteService(
		tools,
		&fakeInsuranceRepo{plans: map[string]*domain.InsurancePlan{}},
		&fakePromoRepo{promos: map[string]*domain.PromoCode{}},
		decimal.Decimal{},
	)
	sessions := checkout.NewStore(10 * time.Minute)

	return &checkoutFixture{
		svc:      service.NewCheckoutService(sessions, quotes, tools, users, bookings, notes, email, gateway, 5*time.Second),
		sessions: sessions,
		tools:    tools,
		bookings: bookings,
		notes:    notes,
		email:    email,
		gateway:  gateway,
	}
}

func fillSession(t *testing.T, fx *checkoutFixture, id string) {
	t.Helper()

	start := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	window := domain.RentalWindow{Start: start, End: start.Add(48 * time.Hour)}
	terms := true
	_, err := fx.svc.UpdateSession(context.Background(), id, checkout.Update{
		Window:        &window,
		AgreedToTerms: &terms,
		Payment:       &checkout.PaymentMethod{Type: "card", Fields: map[string]string{"number": "4242"}},
	})
	require.NoError(t, err)
}

func TestCheckoutService_OpenSession(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		sess, err := fx.svc.OpenSession(ctx, 1, 2)
		require.NoError(t, err)
		assert.Equal(t, checkout.StateEditing, sess.State())
		assert.Equal(t, 1, fx.sessions.Len())
	})

	t.Run("UnknownTool", func(t *testing.T) {
		_, err := fx.svc.OpenSession(ctx, 99, 2)
		assert.ErrorIs(t, err, service.ErrToolNotFound)
	})

	t.Run("UnavailableTool", func(t *testing.T) {
		rented := testTool()
		rented.ID = 5
		rented.Status = domain.ToolStatusRented
		fx.tools.tools[5] = rented

		_, err := fx.svc.OpenSession(ctx, 5, 2)
		assert.ErrorIs(t, err, service.ErrToolUnavailable)
	})
}

func TestCheckoutService_SubmitSession(t *testing.T) {
	ctx := context.Background()

	t.Run("ConfirmsBookingAndFansOut", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		sess, err := fx.svc.OpenSession(ctx, 1, 2)
		require.NoError(t, err)
		fillSession(t, fx, sess.ID)

		sess, err = fx.svc.SubmitSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, checkout.StateSucceeded, sess.State())

		require.Len(t, fx.bookings.bookings, 1)
		booking := fx.bookings.bookings[0]
		assert.Equal(t, sess.BookingID(), booking.ID)
		assert.Equal(t, domain.BookingStatusConfirmed, booking.Status)
		assert.Equal(t, domain.PaymentStatusHeldInEscrow, booking.PaymentStatus)
		assert.Equal(t, domain.DepositStatusHeld, booking.DepositStatus)
		assert.Equal(t, "PAY-test", booking.ConfirmationID)
		// Charged total matches the quoted total, deposit included.
		assert.True(t, booking.GrandTotal.Equal(decimal.NewFromInt(105)), "grand %s", booking.GrandTotal)

		// Session is removed once the booking exists.
		assert.Equal(t, 0, fx.sessions.Len())
		assert.Equal(t, 1, fx.email.confirmations)
		require.Len(t, fx.notes.notes, 1)
		assert.Equal(t, int32(3), fx.notes.notes[0].UserID)
	})

	t.Run("ValidationFailureReportsFields", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		sess, err := fx.svc.OpenSession(ctx, 1, 2)
		require.NoError(t, err)

		sess, err = fx.svc.SubmitSession(ctx, sess.ID)
		assert.ErrorIs(t, err, checkout.ErrValidationFailed)
		assert.Equal(t, checkout.StateEditing, sess.State())
		assert.NotEmpty(t, sess.FieldErrors())
		assert.Empty(t, fx.bookings.bookings)
	})

	t.Run("DeclinedPaymentLandsInFailed", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		fx.gateway.authorize = func(ctx context.Context, req service.PaymentRequest) (*service.PaymentConfirmation, error) {
			return nil, errors.New("card declined")
		}

		sess, err := fx.svc.OpenSession(ctx, 1, 2)
		require.NoError(t, err)
		fillSession(t, fx, sess.ID)

		sess, err = fx.svc.SubmitSession(ctx, sess.ID)
		assert.Error(t, err)
		assert.Equal(t, checkout.StateFailed, sess.State())
		assert.Contains(t, sess.FailureReason(), "card declined")
		assert.Empty(t, fx.bookings.bookings)
		// The session survives failure so the renter can retry.
		assert.Equal(t, 1, fx.sessions.Len())
	})

	t.Run("IdempotencyKeyIsSessionID", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		var gotKey string
		fx.gateway.authorize = func(ctx context.Context, req service.PaymentRequest) (*service.PaymentConfirmation, error) {
			gotKey = req.IdempotencyKey
			return &service.PaymentConfirmation{ID: "PAY-key"}, nil
		}

		sess, err := fx.svc.OpenSession(ctx, 1, 2)
		require.NoError(t, err)
		fillSession(t, fx, sess.ID)

		_, err = fx.svc.SubmitSession(ctx, sess.ID)
		require.NoError(t, err)
		assert.Equal(t, sess.ID, gotKey)
	})

	t.Run("UnknownSession", func(t *testing.T) {
		fx := newCheckoutFixture(t)
		_, err := fx.svc.SubmitSession(ctx, "missing")
		assert.ErrorIs(t, err, service.ErrSessionNotFound)
	})
}

func TestCheckoutService_ApplySessionPromo(t *testing.T) {
	fx := newCheckoutFixture(t)
	ctx := context.Background()

	sess, err := fx.svc.OpenSession(ctx, 1, 2)
	require.NoError(t, err)
	fillSession(t, fx, sess.ID)

	// No promos configured in this fixture, so any code is rejected and
	// the session keeps its quote.
	sess, err = fx.svc.ApplySessionPromo(ctx, sess.ID, "BOGUS")
	assert.Error(t, err)
	inputs, quote, quoteErr := sess.Snapshot()
	assert.Empty(t, inputs.PromoCode)
	assert.NoError(t, quoteErr)
	assert.NotNil(t, quote)
}
