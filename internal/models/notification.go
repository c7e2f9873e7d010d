package models

import (
	"time"
)

// NotificationType tells the recipient why they are being contacted.
type NotificationType string

const (
	NotificationReschedule   NotificationType = "appointment_rescheduled"
	NotificationStatusChange NotificationType = "appointment_status"
	NotificationGeneral      NotificationType = "general"
)

// Notification is a message queued for a patient or doctor. Delivery is
// best-effort: SentAt stays nil when every channel failed, and the row is
// kept so the failure is visible.
type Notification struct {
	BaseModel
	RecipientID   string           `gorm:"size:36;index" json:"recipientId"`
	AppointmentID string           `gorm:"size:36;index" json:"appointmentId,omitempty"`
	Type          NotificationType `gorm:"size:40;default:'general'" json:"type"`
	Message       string           `gorm:"type:text" json:"message"`
	Channel       string           `gorm:"size:20;default:'email'" json:"channel"`
	SentAt        *time.Time       `json:"sentAt,omitempty"`

	Recipient User `gorm:"foreignKey:RecipientID" json:"-"`
}
