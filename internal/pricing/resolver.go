package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"toolshare-backend/internal/domain"
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// Resolution is the output of classifying a rental window against a rate
// card: the billing tier that won, the base rental cost it produced, and
// the human-readable rate/duration texts shown at checkout.
type Resolution struct {
	Tier                domain.RateTier
	BaseCost            decimal.Decimal
	RateDescription     string
	DurationDescription string
	Hours               decimal.Decimal
	Days                int
}

// Resolve classifies a rental window into a billing band and prices it.
//
// Bands are mutually exclusive and evaluated in fixed priority order:
// hourly (under 24h, capped at the daily rate), daily (under 7 days),
// weekly (under 30 days, with daily remainder), monthly (30 days and up).
// When the hourly cost meets or exceeds the daily rate the daily cap wins,
// including at exact equality; that tie-break is the cheaper outcome for
// the renter and callers depend on it.
func Resolve(rates domain.RateCard, window domain.RentalWindow) (Resolution, error) {
	if !window.IsValid() {
		return Resolution{}, ErrInvalidWindow
	}

	hours := window.Hours()
	days := int(math.Ceil(window.End.Sub(window.Start).Hours() / 24))

	switch {
	case hours.LessThan(decimal.NewFromInt(24)):
		return resolveHourly(rates, hours)
	case days < daysPerWeek:
		return resolveDaily(rates, hours, days)
	case days < daysPerMonth:
		return resolveWeekly(rates, hours, days)
	default:
		return resolveMonthly(rates, hours, days)
	}
}

func resolveHourly(rates domain.RateCard, hours decimal.Decimal) (Resolution, error) {
	if rates.Hourly == nil {
		// No hourly rate listed: bill the whole sub-day window at the
		// daily rate if there is one.
		if rates.Daily == nil {
			return Resolution{}, missingTier("hourly")
		}
		return dailyCapResolution(rates, hours), nil
	}

	hourlyCost := hours.Mul(*rates.Hourly)
	if rates.Daily != nil && !hourlyCost.LessThan(*rates.Daily) {
		// Equality resolves to the cap, not the hourly rate.
		return dailyCapResolution(rates, hours), nil
	}

	return Resolution{
		Tier:                domain.RateTierHourly,
		BaseCost:            hourlyCost,
		RateDescription:     fmt.Sprintf("Hourly ($%s/hr)", rates.Hourly),
		DurationDescription: fmt.Sprintf("%s hours", hours.StringFixed(1)),
		Hours:               hours,
		Days:                1,
	}, nil
}

func dailyCapResolution(rates domain.RateCard, hours decimal.Decimal) Resolution {
	return Resolution{
		Tier:                domain.RateTierDailyCap,
		BaseCost:            *rates.Daily,
		RateDescription:     fmt.Sprintf("Daily Cap ($%s/day)", rates.Daily),
		DurationDescription: "1 Day",
		Hours:               hours,
		Days:                1,
	}
}

func resolveDaily(rates domain.RateCard, hours decimal.Decimal, days int) (Resolution, error) {
	if rates.Daily == nil {
		return Resolution{}, missingTier("daily")
	}
	return Resolution{
		Tier:                domain.RateTierDaily,
		BaseCost:            decimal.NewFromInt(int64(days)).Mul(*rates.Daily),
		RateDescription:     fmt.Sprintf("Daily ($%s/day)", rates.Daily),
		DurationDescription: fmt.Sprintf("%d Days", days),
		Hours:               hours,
		Days:                days,
	}, nil
}

func resolveWeekly(rates domain.RateCard, hours decimal.Decimal, days int) (Resolution, error) {
	if rates.Weekly == nil {
		return Resolution{}, missingTier("weekly")
	}

	weeks := days / daysPerWeek
	remainderDays := days % daysPerWeek

	cost := decimal.NewFromInt(int64(weeks)).Mul(*rates.Weekly)
	if remainderDays > 0 {
		if rates.Daily == nil {
			return Resolution{}, missingTier("daily")
		}
		cost = cost.Add(decimal.NewFromInt(int64(remainderDays)).Mul(*rates.Daily))
	}

	return Resolution{
		Tier:                domain.RateTierWeekly,
		BaseCost:            cost,
		RateDescription:     fmt.Sprintf("Weekly ($%s/wk)", rates.Weekly),
		DurationDescription: fmt.Sprintf("%d Weeks, %d Days", weeks, remainderDays),
		Hours:               hours,
		Days:                days,
	}, nil
}

func resolveMonthly(rates domain.RateCard, hours decimal.Decimal, days int) (Resolution, error) {
	if rates.Monthly == nil {
		return Resolution{}, missingTier("monthly")
	}

	// Whole months only. Remainder days beyond the last full month are
	// not billed.
	months := days / daysPerMonth

	return Resolution{
		Tier:                domain.RateTierMonthly,
		BaseCost:            decimal.NewFromInt(int64(months)).Mul(*rates.Monthly),
		RateDescription:     fmt.Sprintf("Monthly ($%s/mo)", rates.Monthly),
		DurationDescription: fmt.Sprintf("%d Month(s)", months),
		Hours:               hours,
		Days:                days,
	}, nil
}
