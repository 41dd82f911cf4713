package postgres

import (
	"database/sql"

	"toolshare-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.ToolRepository
	repository.InsurancePlanRepository
	repository.PromoCodeRepository
	repository.BookingRepository
	repository.NotificationRepository
	repository.UserRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                      db,
		ToolRepository:          NewToolRepository(db),
		InsurancePlanRepository: NewInsurancePlanRepository(db),
		PromoCodeRepository:     NewPromoCodeRepository(db),
		BookingRepository:       NewBookingRepository(db),
		NotificationRepository:  NewNotificationRepository(db),
		UserRepository:          NewUserRepository(db),
	}
}
