package domain

import "github.com/shopspring/decimal"

// InsurancePlan is a flat-priced protection add-on. At most one plan is
// attached to a quote; its price is additive and never discounted.
type InsurancePlan struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	CoverageLimit decimal.Decimal `json:"coverage_limit"`
	Deductible    decimal.Decimal `json:"deductible"`
	Description   string          `json:"description"`
	Features      []string        `json:"features"`
}
