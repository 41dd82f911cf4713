package pricing

import (
	"errors"
	"fmt"
)

// ErrInvalidWindow means the rental window end is not strictly after its
// start. It is a validation failure, not a zero-cost quote.
var ErrInvalidWindow = errors.New("rental window end must be after start")

// ErrInvalidPromoCode means the submitted code matched nothing in the
// promo catalog. Applying it must not clear a previously applied promo.
var ErrInvalidPromoCode = errors.New("promo code not recognized")

// MissingTierError means the rate card lacks the rate needed for the
// matched billing band. This is a listing configuration problem, not a
// renter input error.
type MissingTierError struct {
	Tier string
}

func (e *MissingTierError) Error() string {
	return fmt.Sprintf("rate card has no %s rate for this duration", e.Tier)
}

func missingTier(tier string) error {
	return &MissingTierError{Tier: tier}
}
