package pricing

import (
	"github.com/shopspring/decimal"

	"toolshare-backend/internal/domain"
)

// DefaultPlatformFeeRate is the commission charged on the discounted
// rental+insurance subtotal when no rate is configured.
var DefaultPlatformFeeRate = decimal.NewFromFloat(0.10)

// Aggregate combines a resolved base rental cost with the optional
// insurance plan, the optional promo discount, the platform fee, and the
// refundable security deposit into a final Quote. It is a pure function;
// callers recompute it wholesale on every input change.
//
// Percentage discounts apply to the base rental cost only, never to the
// insurance-inclusive subtotal, while the fee applies to the discounted
// subtotal. The two bases are intentionally different; changing either
// one changes what renters pay.
func Aggregate(res Resolution, plan *domain.InsurancePlan, promo *domain.PromoCode, deposit decimal.Decimal, feeRate decimal.Decimal) domain.Quote {
	insuranceCost := decimal.Zero
	if plan != nil {
		insuranceCost = plan.Price
	}
	subtotal := res.BaseCost.Add(insuranceCost)

	discount := decimal.Zero
	clamped := false
	if promo != nil {
		switch promo.DiscountType {
		case domain.DiscountTypePercentage:
			discount = res.BaseCost.Mul(promo.Value)
		case domain.DiscountTypeFixed:
			discount = promo.Value
			if discount.GreaterThan(subtotal) {
				// A fixed discount may never drive the payable
				// subtotal negative.
				discount = subtotal
				clamped = true
			}
		}
	}

	discounted := subtotal.Sub(discount)
	fee := discounted.Mul(feeRate)

	return domain.Quote{
		Tier:                res.Tier,
		BaseRentalCost:      res.BaseCost,
		RateDescription:     res.RateDescription,
		DurationDescription: res.DurationDescription,
		InsuranceCost:       insuranceCost,
		DiscountAmount:      discount,
		DiscountClamped:     clamped,
		PlatformFee:         fee,
		SecurityDeposit:     deposit,
		GrandTotal:          discounted.Add(fee).Add(deposit),
	}
}
