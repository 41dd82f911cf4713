package service

import (
	"context"
	"time"

	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/domain"
)

type QuoteService interface {
	// BuildQuote derives a quote for one tool/window/options combination.
	// It is pure with respect to its inputs; callers may invoke it as
	// often as they like.
	BuildQuote(ctx context.Context, toolID int32, window domain.RentalWindow, insurancePlanID, promoCode string) (*domain.Quote, error)
	ValidatePromo(ctx context.Context, code string) (*domain.PromoCode, error)
	ListInsurancePlans(ctx context.Context) ([]domain.InsurancePlan, error)
}

type CheckoutService interface {
	OpenSession(ctx context.Context, toolID, renterID int32) (*checkout.Session, error)
	GetSession(id string) (*checkout.Session, error)
	UpdateSession(ctx context.Context, id string, u checkout.Update) (*checkout.Session, error)
	ApplySessionPromo(ctx context.Context, id, code string) (*checkout.Session, error)
	SubmitSession(ctx context.Context, id string) (*checkout.Session, error)
}

type ToolService interface {
	GetTool(ctx context.Context, id int32) (*domain.Tool, error)
	ListTools(ctx context.Context, category string, page, pageSize int32) ([]domain.Tool, int32, error)
}

type BookingService interface {
	GetBooking(ctx context.Context, userID, bookingID int32) (*domain.Booking, error)
	ListBookings(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
}

type EmailService interface {
	SendBookingConfirmation(ctx context.Context, email, name, toolName string, booking *domain.Booking) error
	SendReturnReminder(ctx context.Context, email, name, toolName string, endAt time.Time) error
}
