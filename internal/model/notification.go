package model

import "time"

// NotificationKind is the severity of a notification.
type NotificationKind string

const (
	NotifyInfo    NotificationKind = "info"
	NotifySuccess NotificationKind = "success"
	NotifyWarning NotificationKind = "warning"
	NotifyError   NotificationKind = "error"
)

// Notification is a per-user message with a one-way unread -> read
// transition. Deleting a notification removes it permanently.
type Notification struct {
	ID        string           `gorm:"primaryKey;size:36"`
	UserID    string           `gorm:"index;size:36;not null"`
	Title     string           `gorm:"size:256;not null"`
	Message   string           `gorm:"size:1024;not null"`
	Kind      NotificationKind `gorm:"size:16;not null"`
	Read      bool             `gorm:"not null"`
	Link      string           `gorm:"size:512"`
	CreatedAt time.Time        `gorm:"not null"`
}
