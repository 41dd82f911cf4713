package service_test

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"toolshare-backend/internal/checkout"
	"toolshare-backend/internal/domain"
	"toolshare-backend/internal/service"
)

// In-memory repository fakes. Catalog lookups behave like the SQL layer:
// a miss is sql.ErrNoRows, promo codes match case-insensitively.

type fakeToolRepo struct {
	tools map[int32]*domain.Tool
}

func (f *fakeToolRepo) Create(ctx context.Context, t *domain.Tool) error { return nil }

func (f *fakeToolRepo) GetByID(ctx context.Context, id int32) (*domain.Tool, error) {
	t, ok := f.tools[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeToolRepo) Update(ctx context.Context, t *domain.Tool) error { return nil }
func (f *fakeToolRepo) Delete(ctx context.Context, id int32) error       { return nil }

func (f *fakeToolRepo) List(ctx context.Context, category string, page, pageSize int32) ([]domain.Tool, int32, error) {
	var out []domain.Tool
	for _, t := range f.tools {
		out = append(out, *t)
	}
	return out, int32(len(out)), nil
}

type fakeInsuranceRepo struct {
	plans map[string]*domain.InsurancePlan
}

func (f *fakeInsuranceRepo) GetByID(ctx context.Context, id string) (*domain.InsurancePlan, error) {
	p, ok := f.plans[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeInsuranceRepo) List(ctx context.Context) ([]domain.InsurancePlan, error) {
	var out []domain.InsurancePlan
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

type fakePromoRepo struct {
	promos map[string]*domain.PromoCode
}

func (f *fakePromoRepo) GetByCode(ctx context.Context, code string) (*domain.PromoCode, error) {
	p, ok := f.promos[strings.ToUpper(code)]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePromoRepo) List(ctx context.Context) ([]domain.PromoCode, error) {
	var out []domain.PromoCode
	for _, p := range f.promos {
		out = append(out, *p)
	}
	return out, nil
}

type fakeBookingRepo struct {
	mu       sync.Mutex
	nextID   int32
	bookings []*domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	b.ID = f.nextID
	cp := *b
	f.bookings = append(f.bookings, &cp)
	return nil
}

func (f *fakeBookingRepo) GetByID(ctx context.Context, id int32) (*domain.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, b := range f.bookings {
		if b.ID == id {
			cp := *b
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeBookingRepo) Update(ctx context.Context, b *domain.Booking) error { return nil }

func (f *fakeBookingRepo) ListByRenter(ctx context.Context, renterID int32, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Booking
	for _, b := range f.bookings {
		if b.RenterID == renterID && (status == "" || string(b.Status) == status) {
			out = append(out, *b)
		}
	}
	return out, int32(len(out)), nil
}

func (f *fakeBookingRepo) ListEndingBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	return nil, nil
}

func (f *fakeBookingRepo) MarkOverdue(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}

type fakeUserRepo struct {
	users map[int32]*domain.User
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error { return nil }

func (f *fakeUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeNoteRepo struct {
	mu    sync.Mutex
	notes []*domain.Notification
}

func (f *fakeNoteRepo) Create(ctx context.Context, n *domain.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *n
	f.notes = append(f.notes, &cp)
	return nil
}

func (f *fakeNoteRepo) List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Notification
	for _, n := range f.notes {
		if n.UserID == userID {
			out = append(out, *n)
		}
	}
	return out, int32(len(out)), nil
}

func (f *fakeNoteRepo) MarkAsRead(ctx context.Context, id, userID int32) error { return nil }

type fakeEmailService struct {
	mu            sync.Mutex
	confirmations int
	reminders     int
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, email, name, toolName string, booking *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations++
	return nil
}

func (f *fakeEmailService) SendReturnReminder(ctx context.Context, email, name, toolName string, endAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reminders++
	return nil
}

type fakeGateway struct {
	authorize func(ctx context.Context, req service.PaymentRequest) (*service.PaymentConfirmation, error)
}

func (f *fakeGateway) Authorize(ctx context.Context, req service.PaymentRequest) (*service.PaymentConfirmation, error) {
	if f.authorize != nil {
		return f.authorize(ctx, req)
	}
	return &service.PaymentConfirmation{ID: "PAY-test"}, nil
}

func (f *fakeGateway) FieldsComplete(m checkout.PaymentMethod) bool {
	return m.Type != "" && len(m.Fields) > 0
}

func rate(v float64) *decimal.Decimal {
	d := decimal.NewFromFloat(v)
	return &d
}

func testTool() *domain.Tool {
	return &domain.Tool{
		ID:              1,
		OwnerID:         3,
		Name:            "Cordless Drill",
		Category:        domain.ToolCategoryPowerTools,
		Status:          domain.ToolStatusAvailable,
		Rates:           domain.RateCard{Hourly: rate(5), Daily: rate(25), Weekly: rate(120), Monthly: rate(400)},
		SecurityDeposit: decimal.NewFromInt(50),
	}
}
