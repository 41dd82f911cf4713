package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"toolshare-backend/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func baseResolution(cost string) Resolution {
	return Resolution{
		Tier:                domain.RateTierDaily,
		BaseCost:            dec(cost),
		RateDescription:     "Daily ($25/day)",
		DurationDescription: "4 Days",
	}
}

func TestAggregate_PercentagePromoAppliesToBaseOnly(t *testing.T) {
	plan := &domain.InsurancePlan{ID: "premium", Price: dec("9.99")}
	promo := &domain.PromoCode{Code: "WELCOME10", DiscountType: domain.DiscountTypePercentage, Value: dec("0.10")}

	q := Aggregate(baseResolution("100"), plan, promo, dec("50"), DefaultPlatformFeeRate)

	// Discount is 10% of the base 100, not of the 109.99 subtotal.
	assert.True(t, q.DiscountAmount.Equal(dec("10")), "got %s", q.DiscountAmount)
	assert.True(t, q.InsuranceCost.Equal(dec("9.99")))
	assert.True(t, q.PlatformFee.Equal(dec("9.999")), "got %s", q.PlatformFee)
	assert.True(t, q.GrandTotal.Equal(dec("159.989")), "got %s", q.GrandTotal)
	assert.False(t, q.DiscountClamped)
}

func TestAggregate_FixedPromo(t *testing.T) {
	t.Run("Flat amount off", func(t *testing.T) {
		promo := &domain.PromoCode{Code: "SAVE5", DiscountType: domain.DiscountTypeFixed, Value: dec("5")}
		q := Aggregate(baseResolution("100"), nil, promo, dec("25"), DefaultPlatformFeeRate)

		assert.True(t, q.DiscountAmount.Equal(dec("5")))
		assert.True(t, q.PlatformFee.Equal(dec("9.5")))
		assert.True(t, q.GrandTotal.Equal(dec("129.5")))
	})

	t.Run("Clamped at subtotal", func(t *testing.T) {
		promo := &domain.PromoCode{Code: "BIG", DiscountType: domain.DiscountTypeFixed, Value: dec("50")}
		q := Aggregate(baseResolution("30"), nil, promo, dec("20"), DefaultPlatformFeeRate)

		assert.True(t, q.DiscountAmount.Equal(dec("30")))
		assert.True(t, q.DiscountClamped)
		assert.True(t, q.PlatformFee.IsZero())
		// Only the refundable deposit remains payable.
		assert.True(t, q.GrandTotal.Equal(dec("20")))
		assert.False(t, q.GrandTotal.IsNegative())
	})
}

func TestAggregate_NoOptions(t *testing.T) {
	q := Aggregate(baseResolution("80"), nil, nil, dec("40"), DefaultPlatformFeeRate)

	assert.True(t, q.InsuranceCost.IsZero())
	assert.True(t, q.DiscountAmount.IsZero())
	assert.True(t, q.PlatformFee.Equal(dec("8")))
	assert.True(t, q.GrandTotal.Equal(dec("128")))
	assert.Equal(t, "Daily ($25/day)", q.RateDescription)
	assert.Equal(t, "4 Days", q.DurationDescription)
}

func TestAggregate_DepositNeverDiscounted(t *testing.T) {
	// A 100% discount wipes the rental charges but the deposit stands.
	promo := &domain.PromoCode{Code: "FREE", DiscountType: domain.DiscountTypePercentage, Value: dec("1")}
	q := Aggregate(baseResolution("100"), nil, promo, dec("75"), DefaultPlatformFeeRate)

	assert.True(t, q.DiscountAmount.Equal(dec("100")))
	assert.True(t, q.SecurityDeposit.Equal(dec("75")))
	assert.True(t, q.GrandTotal.Equal(dec("75")))
}

func TestAggregate_Idempotent(t *testing.T) {
	plan := &domain.InsurancePlan{ID: "premium", Price: dec("9.99")}
	promo := &domain.PromoCode{Code: "WELCOME10", DiscountType: domain.DiscountTypePercentage, Value: dec("0.10")}

	a := Aggregate(baseResolution("100"), plan, promo, dec("50"), DefaultPlatformFeeRate)
	b := Aggregate(baseResolution("100"), plan, promo, dec("50"), DefaultPlatformFeeRate)

	assert.True(t, a.GrandTotal.Equal(b.GrandTotal))
	assert.True(t, a.PlatformFee.Equal(b.PlatformFee))
	assert.True(t, a.DiscountAmount.Equal(b.DiscountAmount))
	assert.Equal(t, a.DurationDescription, b.DurationDescription)
}
