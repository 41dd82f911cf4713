package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/repository"
)

type toolRepository struct {
	db *sql.DB
}

func NewToolRepository(db *sql.DB) repository.ToolRepository {
	return &toolRepository{db: db}
}

const toolColumns = `id, owner_id, name, COALESCE(description, ''), category, condition, location, status, instant_booking, hourly_rate, daily_rate, weekly_rate, monthly_rate, security_deposit, created_on, deleted_on`

func (r *toolRepository) Create(ctx context.Context, t *domain.Tool) error {
	query := `INSERT INTO tools (owner_id, name, description, category, condition, location, status, instant_booking, hourly_rate, daily_rate, weekly_rate, monthly_rate, security_deposit, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14) RETURNING id`
	return r.db.QueryRowContext(ctx, query,
		t.OwnerID, t.Name, t.Description, t.Category, t.Condition, t.Location, t.Status, t.InstantBooking,
		nullRate(t.Rates.Hourly), nullRate(t.Rates.Daily), nullRate(t.Rates.Weekly), nullRate(t.Rates.Monthly),
		t.SecurityDeposit, time.Now(),
	).Scan(&t.ID)
}

func (r *toolRepository) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	query := `SELECT ` + toolColumns + ` FROM tools WHERE id = $1 AND deleted_on IS NULL`
	return scanTool(r.db.QueryRowContext(ctx, query, id))
}

func (r *toolRepository) Update(ctx context.Context, t *domain.Tool) error {
	query := `UPDATE tools SET name=$1, description=$2, category=$3, condition=$4, location=$5, status=$6, instant_booking=$7, hourly_rate=$8, daily_rate=$9, weekly_rate=$10, monthly_rate=$11, security_deposit=$12 WHERE id=$13`
	_, err := r.db.ExecContext(ctx, query,
		t.Name, t.Description, t.Category, t.Condition, t.Location, t.Status, t.InstantBooking,
		nullRate(t.Rates.Hourly), nullRate(t.Rates.Daily), nullRate(t.Rates.Weekly), nullRate(t.Rates.Monthly),
		t.SecurityDeposit, t.ID,
	)
	return err
}

func (r *toolRepository) Delete(ctx context.Context, id int32) error {
	query := `UPDATE tools SET deleted_on = $1 WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, time.Now(), id)
	return err
}

func (r *toolRepository) List(ctx context.Context, category string, page, pageSize int32) ([]domain.Tool, int32, error) {
	offset := (page - 1) * pageSize
	query := `SELECT ` + toolColumns + ` FROM tools WHERE deleted_on IS NULL AND ($1 = '' OR category = $1) ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, category, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tools []domain.Tool
	for rows.Next() {
		t, err := scanToolRow(rows)
		if err != nil {
			return nil, 0, err
		}
		tools = append(tools, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var count int32
	countQuery := `SELECT count(*) FROM tools WHERE deleted_on IS NULL AND ($1 = '' OR category = $1)`
	if err := r.db.QueryRowContext(ctx, countQuery, category).Scan(&count); err != nil {
		return nil, 0, err
	}
	return tools, count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTool(row rowScanner) (*domain.Tool, error) {
	t := &domain.Tool{}
	var hourly, daily, weekly, monthly decimal.NullDecimal
	err := row.Scan(
		&t.ID, &t.OwnerID, &t.Name, &t.Description, &t.Category, &t.Condition, &t.Location, &t.Status, &t.InstantBooking,
		&hourly, &daily, &weekly, &monthly, &t.SecurityDeposit, &t.CreatedOn, &t.DeletedOn,
	)
	if err != nil {
		return nil, err
	}
	t.Rates = domain.RateCard{
		Hourly:  fromNull(hourly),
		Daily:   fromNull(daily),
		Weekly:  fromNull(weekly),
		Monthly: fromNull(monthly),
	}
	return t, nil
}

func scanToolRow(rows *sql.Rows) (*domain.Tool, error) {
	return scanTool(rows)
}

func nullRate(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNull(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
