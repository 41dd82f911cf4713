package jobs

import (
	"context"
	"time"

	"toolshare-backend/internal/logger"
)

// ExpireCheckoutSessions drops abandoned checkout sessions from memory.
// Sessions mid-submit are left alone; the submit path removes them on
// confirmation.
func (jr *JobRunner) ExpireCheckoutSessions() {
	jr.runWithRecovery("ExpireCheckoutSessions", func() {
		dropped := jr.sessions.SweepExpired(time.Now())
		if dropped > 0 {
			logger.Info("Expired checkout sessions", "count", dropped)
		}
	})
}

// MarkOverdueBookings flips ACTIVE bookings past their end time to
// OVERDUE
func (jr *JobRunner) MarkOverdueBookings() {
	jr.runWithRecovery("MarkOverdueBookings", func() {
		ctx := context.Background()

		count, err := jr.store.BookingRepository.MarkOverdue(ctx, time.Now())
		if err != nil {
			logger.Error("Failed to mark overdue bookings", "error", err)
			return
		}
		logger.Info("Marked bookings as overdue", "count", count)
	})
}

// SendReturnReminders emails renters whose rentals end within the next
// 24 hours
func (jr *JobRunner) SendReturnReminders() {
	jr.runWithRecovery("SendReturnReminders", func() {
		ctx := context.Background()
		now := time.Now()

		bookings, err := jr.store.BookingRepository.ListEndingBetween(ctx, now, now.Add(24*time.Hour))
		if err != nil {
			logger.Error("Failed to list bookings ending soon", "error", err)
			return
		}

		sent := 0
		for _, booking := range bookings {
			renter, err := jr.store.UserRepository.GetByID(ctx, booking.RenterID)
			if err != nil {
				logger.Error("Failed to load renter for reminder", "booking_id", booking.ID, "error", err)
				continue
			}
			tool, err := jr.store.ToolRepository.GetByID(ctx, booking.ToolID)
			if err != nil {
				logger.Error("Failed to load tool for reminder", "booking_id", booking.ID, "error", err)
				continue
			}
			if err := jr.email.SendReturnReminder(ctx, renter.Email, renter.Name, tool.Name, booking.EndAt); err != nil {
				logger.Error("Failed to send return reminder", "booking_id", booking.ID, "error", err)
				continue
			}
			sent++
		}
		logger.Info("Sent return reminders", "count", sent, "candidates", len(bookings))
	})
}
