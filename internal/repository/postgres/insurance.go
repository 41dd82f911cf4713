package postgres

import (
	"context"
	"database/sql"

	"github.com/lib/pq"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/repository"
)

type insurancePlanRepository struct {
	db *sql.DB
}

func NewInsurancePlanRepository(db *sql.DB) repository.InsurancePlanRepository {
	return &insurancePlanRepository{db: db}
}

func (r *insurancePlanRepository) GetByID(ctx context.Context, id string) (*domain.InsurancePlan, error) {
	p := &domain.InsurancePlan{}
	query := `SELECT id, name, price, coverage_limit, deductible, COALESCE(description, ''), features FROM insurance_plans WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.Price, &p.CoverageLimit, &p.Deductible, &p.Description, pq.Array(&p.Features))
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *insurancePlanRepository) List(ctx context.Context) ([]domain.InsurancePlan, error) {
	query := `SELECT id, name, price, coverage_limit, deductible, COALESCE(description, ''), features FROM insurance_plans ORDER BY price`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []domain.InsurancePlan
	for rows.Next() {
		var p domain.InsurancePlan
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.CoverageLimit, &p.Deductible, &p.Description, pq.Array(&p.Features)); err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
