package client

import (
	"context"

	"carelink-server/internal/models"
)

// NotificationCreate is the payload for POST /notifications.
type NotificationCreate struct {
	RecipientID   string                  `json:"recipientId,omitempty"`
	PatientID     string                  `json:"patientId,omitempty"`
	AppointmentID string                  `json:"appointmentId,omitempty"`
	Type          models.NotificationType `json:"type,omitempty"`
	Message       string                  `json:"message"`
	Channel       string                  `json:"channel,omitempty"`
}

// CreateNotification posts a notification. Callers in the reschedule flow
// treat failures as non-fatal; this method reports them and lets the caller
// decide.
func (c *Client) CreateNotification(ctx context.Context, req NotificationCreate) error {
	_, err := c.post(ctx, "/notifications", req, true)
	return err
}
