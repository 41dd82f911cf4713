package domain

import "github.com/shopspring/decimal"

type DiscountType string

const (
	// DiscountTypePercentage discounts a fraction of the base rental cost.
	// Value is a fraction in [0,1], e.g. 0.10 for 10% off.
	DiscountTypePercentage DiscountType = "percentage"
	// DiscountTypeFixed discounts a flat amount off the subtotal.
	DiscountTypeFixed DiscountType = "fixed"
)

// PromoCode is a discount token. Codes are matched case-insensitively.
type PromoCode struct {
	Code         string          `json:"code"`
	DiscountType DiscountType    `json:"discount_type"`
	Value        decimal.Decimal `json:"value"`
	Description  string          `json:"description"`
}
