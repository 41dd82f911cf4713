package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateTier identifies which rate card tier priced a rental window.
type RateTier string

const (
	RateTierHourly   RateTier = "HOURLY"
	RateTierDailyCap RateTier = "DAILY_CAP"
	RateTierDaily    RateTier = "DAILY"
	RateTierWeekly   RateTier = "WEEKLY"
	RateTierMonthly  RateTier = "MONTHLY"
)

// RentalWindow is the proposed start/end of a rental. Instants are
// timezone-naive local times composed from a date and a time of day.
type RentalWindow struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Hours returns the window length in fractional hours. Non-positive
// values mean the window is invalid.
func (w RentalWindow) Hours() decimal.Decimal {
	return decimal.NewFromFloat(w.End.Sub(w.Start).Hours())
}

func (w RentalWindow) IsValid() bool {
	return w.End.After(w.Start)
}

// Quote is the fully itemized pricing result for one window/options
// combination. It is a derived value, recomputed from current inputs on
// every change, and is never persisted on its own.
type Quote struct {
	Tier                RateTier        `json:"tier"`
	BaseRentalCost      decimal.Decimal `json:"base_rental_cost"`
	RateDescription     string          `json:"rate_description"`
	DurationDescription string          `json:"duration_description"`
	InsuranceCost       decimal.Decimal `json:"insurance_cost"`
	DiscountAmount      decimal.Decimal `json:"discount_amount"`
	DiscountClamped     bool            `json:"discount_clamped,omitempty"`
	PlatformFee         decimal.Decimal `json:"platform_fee"`
	SecurityDeposit     decimal.Decimal `json:"security_deposit"`
	GrandTotal          decimal.Decimal `json:"grand_total"`
}
