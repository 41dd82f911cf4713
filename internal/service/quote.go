package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/pricing"
	"toolshare-backend/internal/repository"
)

// ErrToolNotFound covers both missing and soft-deleted tools.
var ErrToolNotFound = errors.New("tool not found")

type quoteService struct {
	toolRepo      repository.ToolRepository
	insuranceRepo repository.InsurancePlanRepository
	promoRepo     repository.PromoCodeRepository
	feeRate       decimal.Decimal
}

func NewQuoteService(
	toolRepo repository.ToolRepository,
	insuranceRepo repository.InsurancePlanRepository,
	promoRepo repository.PromoCodeRepository,
	feeRate decimal.Decimal,
) QuoteService {
	if feeRate.IsZero() {
		feeRate = pricing.DefaultPlatformFeeRate
	}
	return &quoteService{
		toolRepo:      toolRepo,
		insuranceRepo: insuranceRepo,
		promoRepo:     promoRepo,
		feeRate:       feeRate,
	}
}

func (s *quoteService) BuildQuote(ctx context.Context, toolID int32, window domain.RentalWindow, insurancePlanID, promoCode string) (*domain.Quote, error) {
	tool, err := s.toolRepo.GetByID(ctx, toolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrToolNotFound
		}
		return nil, err
	}

	var plan *domain.InsurancePlan
	if insurancePlanID != "" {
		plan, err = s.insuranceRepo.GetByID(ctx, insurancePlanID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, fmt.Errorf("unknown insurance plan %q", insurancePlanID)
			}
			return nil, err
		}
	}

	var promo *domain.PromoCode
	if promoCode != "" {
		promo, err = s.ValidatePromo(ctx, promoCode)
		if err != nil {
			return nil, err
		}
	}

	res, err := pricing.Resolve(tool.Rates, window)
	if err != nil {
		return nil, err
	}

	quote := pricing.Aggregate(res, plan, promo, tool.SecurityDeposit, s.feeRate)
	return &quote, nil
}

func (s *quoteService) ValidatePromo(ctx context.Context, code string) (*domain.PromoCode, error) {
	promo, err := s.promoRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, pricing.ErrInvalidPromoCode
		}
		return nil, err
	}
	return promo, nil
}

func (s *quoteService) ListInsurancePlans(ctx context.Context) ([]domain.InsurancePlan, error) {
	return s.insuranceRepo.List(ctx)
}
