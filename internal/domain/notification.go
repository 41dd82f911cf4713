package domain

import "time"

type NotificationType string

const (
	NotificationTypeBooking NotificationType = "BOOKING"
	NotificationTypeSystem  NotificationType = "SYSTEM"
	NotificationTypeAlert   NotificationType = "ALERT"
)

type Notification struct {
	ID        int32            `json:"id"`
	UserID    int32            `json:"user_id"`
	Type      NotificationType `json:"type"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Read      bool             `json:"read"`
	CreatedOn time.Time        `json:"created_on"`
}
