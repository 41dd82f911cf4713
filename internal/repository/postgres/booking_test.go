package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/repository/postgres"
)

func TestBookingRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		booking := &domain.Booking{
			ToolID:          1,
			RenterID:        2,
			OwnerID:         3,
			StartAt:         time.Now(),
			EndAt:           time.Now().Add(48 * time.Hour),
			BaseRentalCost:  decimal.NewFromInt(50),
			GrandTotal:      decimal.NewFromInt(105),
			ConfirmationID:  "PAY-abc",
			Status:          domain.BookingStatusConfirmed,
			PaymentStatus:   domain.PaymentStatusHeldInEscrow,
			DepositStatus:   domain.DepositStatusHeld,
			SecurityDeposit: decimal.NewFromInt(50),
		}

		mock.ExpectQuery("INSERT INTO bookings").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

		err := repo.Create(ctx, booking)
		assert.NoError(t, err)
		assert.Equal(t, int32(7), booking.ID)
		assert.False(t, booking.CreatedOn.IsZero())
	})
}

func TestBookingRepository_MarkOverdue(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	t.Run("ReturnsAffectedCount", func(t *testing.T) {
		now := time.Now()
		mock.ExpectExec("UPDATE bookings SET status = \\$1").
			WithArgs(domain.BookingStatusOverdue, now, domain.BookingStatusActive).
			WillReturnResult(sqlmock.NewResult(0, 3))

		count, err := repo.MarkOverdue(ctx, now)
		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
	})
}

func TestBookingRepository_ListEndingBetween(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewBookingRepository(db)
	ctx := context.Background()

	columns := []string{"id", "tool_id", "renter_id", "owner_id", "start_at", "end_at", "base_rental_cost", "insurance_cost", "discount_amount", "platform_fee", "security_deposit", "grand_total", "insurance_plan_id", "promo_code", "confirmation_id", "status", "payment_status", "deposit_status", "created_on", "updated_on"}

	t.Run("Success", func(t *testing.T) {
		now := time.Now()
		rows := sqlmock.NewRows(columns).
			AddRow(1, 1, 2, 3, now, now.Add(12*time.Hour), "50", "0", "0", "5", "50", "105", "", "", "PAY-abc", "ACTIVE", "HELD_IN_ESCROW", "HELD", now, now)

		mock.ExpectQuery("SELECT (.+) FROM bookings WHERE status IN").
			WithArgs(domain.BookingStatusConfirmed, domain.BookingStatusActive, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(rows)

		bookings, err := repo.ListEndingBetween(ctx, now, now.Add(24*time.Hour))
		assert.NoError(t, err)
		assert.Len(t, bookings, 1)
		assert.Equal(t, domain.BookingStatusActive, bookings[0].Status)
	})
}
