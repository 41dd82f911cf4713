package postgres

import (
	"context"
	"database/sql"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/repository"
)

type promoCodeRepository struct {
	db *sql.DB
}

func NewPromoCodeRepository(db *sql.DB) repository.PromoCodeRepository {
	return &promoCodeRepository{db: db}
}

func (r *promoCodeRepository) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	p := &domain.PromoCode{}
	query := `SELECT code, discount_type, value, COALESCE(description, '') FROM promo_codes WHERE UPPER(code) = UPPER($1)`
	err := r.db.QueryRowContext(ctx, query, code).Scan(&p.Code, &p.DiscountType, &p.Value, &p.Description)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *promoCodeRepository) List(ctx context.Context) ([]domain.PromoCode, error) {
	query := `SELECT code, discount_type, value, COALESCE(description, '') FROM promo_codes ORDER BY code`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var promos []domain.PromoCode
	for rows.Next() {
		var p domain.PromoCode
		if err := rows.Scan(&p.Code, &p.DiscountType, &p.Value, &p.Description); err != nil {
			return nil, err
		}
		promos = append(promos, p)
	}
	return promos, rows.Err()
}
