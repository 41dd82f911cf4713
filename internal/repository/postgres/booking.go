package postgres

import (
	"context"
	"database/sql"
	"time"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, tool_id, renter_id, owner_id, start_at, end_at, base_rental_cost, insurance_cost, discount_amount, platform_fee, security_deposit, grand_total, COALESCE(insurance_plan_id, ''), COALESCE(promo_code, ''), confirmation_id, status, payment_status, deposit_status, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	now := time.Now()
	b.CreatedOn = now
	b.UpdatedOn = now
	query := `INSERT INTO bookings (tool_id, renter_id, owner_id, start_at, end_at, base_rental_cost, insurance_cost, discount_amount, platform_fee, security_deposit, grand_total, insurance_plan_id, promo_code, confirmation_id, status, payment_status, deposit_status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, ''), NULLIF($13, ''), $14, $15, $16, $17, $18, $19) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		b.ToolID, b.RenterID, b.OwnerID, b.StartAt, b.EndAt,
		b.BaseRentalCost, b.InsuranceCost, b.DiscountAmount, b.PlatformFee, b.SecurityDeposit, b.GrandTotal,
		b.InsurancePlanID, b.PromoCode, b.ConfirmationID, b.Status, b.PaymentStatus, b.DepositStatus,
		b.CreatedOn, b.UpdatedOn,
	).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	return scanBooking(r.db.QueryRowContext(ctx, query, id))
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	b.UpdatedOn = time.Now()
	query := `UPDATE bookings SET status=$1, payment_status=$2, deposit_status=$3, updated_on=$4 WHERE id=$5`
	_, err := r.db.ExecContext(ctx, query, b.Status, b.PaymentStatus, b.DepositStatus, b.UpdatedOn, b.ID)
	return err
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE renter_id = $1 AND ($2 = '' OR status = $2) ORDER BY created_on DESC LIMIT $3 OFFSET $4`
	rows, err := r.db.QueryContext(ctx, query, renterID, status, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM bookings WHERE renter_id = $1 AND ($2 = '' OR status = $2)`
	if err := r.db.QueryRowContext(ctx, countQuery, renterID, status).Scan(&count); err != nil {
		return nil, 0, err
	}
	return bookings, count, nil
}

func (r *bookingRepository) ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE status IN ($1, $2) AND end_at >= $3 AND end_at < $4`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusConfirmed, domain.BookingStatusActive, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	query := `UPDATE bookings SET status = $1, updated_on = $2 WHERE status = $3 AND end_at < $2`
	res, err := r.db.ExecContext(ctx, query, domain.BookingStatusOverdue, now, domain.BookingStatusActive)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.ToolID, &b.RenterID, &b.OwnerID, &b.StartAt, &b.EndAt,
		&b.BaseRentalCost, &b.InsuranceCost, &b.DiscountAmount, &b.PlatformFee, &b.SecurityDeposit, &b.GrandTotal,
		&b.InsurancePlanID, &b.PromoCode, &b.ConfirmationID, &b.Status, &b.PaymentStatus, &b.DepositStatus,
		&b.CreatedOn, &b.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
