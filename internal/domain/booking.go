package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusActive    BookingStatus = "ACTIVE"
	BookingStatusCompleted BookingStatus = "COMPLETED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
	BookingStatusOverdue   BookingStatus = "OVERDUE"
)

type PaymentStatus string

const (
	PaymentStatusHeldInEscrow PaymentStatus = "HELD_IN_ESCROW"
	PaymentStatusReleased     PaymentStatus = "RELEASED"
	PaymentStatusRefunded     PaymentStatus = "REFUNDED"
)

type DepositStatus string

const (
	DepositStatusHeld     DepositStatus = "HELD"
	DepositStatusReturned DepositStatus = "RETURNED"
	DepositStatusDeducted DepositStatus = "DEDUCTED"
)

// Booking is the persisted record of a confirmed checkout. The quote
// fields are a snapshot taken at confirmation time; later rate card
// edits never change what a renter was charged.
type Booking struct {
	ID              int32           `json:"id"`
	ToolID          int32           `json:"tool_id"`
	RenterID        int32           `json:"renter_id"`
	OwnerID         int32           `json:"owner_id"`
	StartAt         time.Time       `json:"start_at"`
	EndAt           time.Time       `json:"end_at"`
	BaseRentalCost  decimal.Decimal `json:"base_rental_cost"`
	InsuranceCost   decimal.Decimal `json:"insurance_cost"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	PlatformFee     decimal.Decimal `json:"platform_fee"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	GrandTotal      decimal.Decimal `json:"grand_total"`
	InsurancePlanID string          `json:"insurance_plan_id,omitempty"`
	PromoCode       string          `json:"promo_code,omitempty"`
	ConfirmationID  string          `json:"confirmation_id"`
	Status          BookingStatus   `json:"status"`
	PaymentStatus   PaymentStatus   `json:"payment_status"`
	DepositStatus   DepositStatus   `json:"deposit_status"`
	CreatedOn       time.Time       `json:"created_on"`
	UpdatedOn       time.Time       `json:"updated_on"`
}
