package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type ToolStatus string

const (
	ToolStatusAvailable   ToolStatus = "AVAILABLE"
	ToolStatusUnavailable ToolStatus = "UNAVAILABLE"
	ToolStatusRented      ToolStatus = "RENTED"
)

type ToolCondition string

const (
	ToolConditionNew     ToolCondition = "NEW"
	ToolConditionLikeNew ToolCondition = "LIKE_NEW"
	ToolConditionGood    ToolCondition = "GOOD"
	ToolConditionFair    ToolCondition = "FAIR"
	ToolConditionPoor    ToolCondition = "POOR"
)

type ToolCategory string

const (
	ToolCategoryPowerTools  ToolCategory = "Power Tools"
	ToolCategoryHandTools   ToolCategory = "Hand Tools"
	ToolCategoryGardening   ToolCategory = "Gardening"
	ToolCategoryAutomotive  ToolCategory = "Automotive"
	ToolCategoryWoodworking ToolCategory = "Woodworking"
	ToolCategoryOther       ToolCategory = "Other"
)

// RateCard holds the per-duration prices offered for a tool. A nil tier
// means the owner does not offer that billing tier; it is never treated
// as a zero price.
type RateCard struct {
	Hourly  *decimal.Decimal `json:"hourly,omitempty"`
	Daily   *decimal.Decimal `json:"daily,omitempty"`
	Weekly  *decimal.Decimal `json:"weekly,omitempty"`
	Monthly *decimal.Decimal `json:"monthly,omitempty"`
}

type Tool struct {
	ID              int32           `json:"id"`
	OwnerID         int32           `json:"owner_id"`
	Owner           *User           `json:"owner,omitempty"` // Populated when fetching tool details
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Category        ToolCategory    `json:"category"`
	Condition       ToolCondition   `json:"condition"`
	Location        string          `json:"location"`
	Status          ToolStatus      `json:"status"`
	InstantBooking  bool            `json:"instant_booking"`
	Rates           RateCard        `json:"rates"`
	SecurityDeposit decimal.Decimal `json:"security_deposit"`
	CreatedOn       time.Time       `json:"created_on"`
	DeletedOn       *time.Time      `json:"deleted_on,omitempty"`
}
