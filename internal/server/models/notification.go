package models

import "time"

// NotificationType classifies what triggered a notification.
type NotificationType string

const (
	NotificationTransaction NotificationType = "transaction"
	NotificationACH         NotificationType = "ach"
	NotificationSystem      NotificationType = "system"
)

// Valid reports whether t is a known notification type.
func (t NotificationType) Valid() bool {
	return t == NotificationTransaction || t == NotificationACH || t == NotificationSystem
}

// Notification is a user-facing message created by workflow events or an
// admin broadcast. RelatedID optionally points at the transaction or
// application that produced it.
type Notification struct {
	ID        string
	UserID    string
	Message   string
	Type      NotificationType
	Read      bool
	RelatedID string
	CreatedAt time.Time
}
