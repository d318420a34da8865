package entity

import "time"

type NotificationType string

const (
	NotificationOrderReceived   NotificationType = "ORDER_RECEIVED"
	NotificationOrderStatus     NotificationType = "ORDER_STATUS"
	NotificationDisputeOpened   NotificationType = "DISPUTE_OPENED"
	NotificationDisputeResolved NotificationType = "DISPUTE_RESOLVED"
	NotificationPayoutSettled   NotificationType = "PAYOUT_SETTLED"
)

// Notification is a fan-out message to a single user. Created as a side
// effect of state transitions elsewhere; it never mutates other entities.
type Notification struct {
	ID        string
	UserID    string
	Type      NotificationType
	Title     string
	Message   string
	LinkURL   string
	IsRead    bool
	CreatedAt time.Time
}
