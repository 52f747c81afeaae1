package model

import "time"

// NotificationKind selects how a notification is styled.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationInfo    NotificationKind = "info"
	NotificationError   NotificationKind = "error"
)

// Notification is a short-lived message surfaced to the user in the
// status bar.
type Notification struct {
	// ID is the unique identifier for this notification.
	ID string `json:"id" db:"id"`

	// Message is the human-readable notification text.
	Message string `json:"message" db:"message"`

	// Kind controls styling (success, info, error).
	Kind NotificationKind `json:"kind" db:"kind"`

	// CreatedAt is when this notification was raised.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
