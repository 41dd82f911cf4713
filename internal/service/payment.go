package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"toolshare-backend/internal/checkout"
)

// ErrPaymentDeclined is the generic decline surfaced to the renter; the
// gateway's own reason is wrapped underneath.
var ErrPaymentDeclined = errors.New("payment declined")

type PaymentRequest struct {
	IdempotencyKey string
	ToolID         int32
	RenterID       int32
	Amount         decimal.Decimal
	Method         checkout.PaymentMethod
	Description    string
}

type PaymentConfirmation struct {
	ID string
}

// PaymentGateway is the external booking/payment collaborator. It is
// only ever called from a session's Submitting state, and provides the
// opaque completeness predicate for payment methods.
type PaymentGateway interface {
	Authorize(ctx context.Context, req PaymentRequest) (*PaymentConfirmation, error)
	FieldsComplete(m checkout.PaymentMethod) bool
}

// stubPaymentGateway approves everything with a generated confirmation
// id. Development stand-in, same role the mock storage service plays
// for uploads.
type stubPaymentGateway struct{}

func NewStubPaymentGateway() PaymentGateway {
	return &stubPaymentGateway{}
}

func (g *stubPaymentGateway) Authorize(ctx context.Context, req PaymentRequest) (*PaymentConfirmation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: non-positive amount %s", ErrPaymentDeclined, req.Amount)
	}
	return &PaymentConfirmation{ID: "PAY-" + uuid.NewString()}, nil
}

func (g *stubPaymentGateway) FieldsComplete(m checkout.PaymentMethod) bool {
	required := map[string][]string{
		"card":   {"number", "expiry", "cvc"},
		"paypal": {"email"},
		"apple":  {"token"},
	}
	fields, ok := required[m.Type]
	if !ok {
		return false
	}
	for _, f := range fields {
		if m.Fields[f] == "" {
			return false
		}
	}
	return true
}
