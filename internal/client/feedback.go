package client

import (
	"context"

	"carelink-server/internal/models"
)

// FeedbackCreate is the payload for POST /feedback.
type FeedbackCreate struct {
	AppointmentID string              `json:"appointmentId"`
	FeedbackType  models.FeedbackType `json:"feedbackType"`
	Rating        int                 `json:"rating"`
	Comment       string              `json:"comment,omitempty"`
}

// CreateFeedback submits feedback for a completed appointment.
func (c *Client) CreateFeedback(ctx context.Context, req FeedbackCreate) (*models.Feedback, error) {
	envelope, err := c.post(ctx, "/feedback", req, true)
	if err != nil {
		return nil, err
	}
	var feedback models.Feedback
	if err := decodeData(envelope, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// ListMyFeedback fetches the current patient's feedback.
func (c *Client) ListMyFeedback(ctx context.Context) ([]models.Feedback, error) {
	return c.listFeedback(ctx, "/feedback/me", true)
}

// ListDoctorFeedback fetches feedback for one doctor.
func (c *Client) ListDoctorFeedback(ctx context.Context, doctorID string) ([]models.Feedback, error) {
	return c.listFeedback(ctx, "/feedback/doctor/"+doctorID, true)
}

// AdminListFeedback fetches all feedback via the unauthenticated admin-page
// variant.
func (c *Client) AdminListFeedback(ctx context.Context) ([]models.Feedback, error) {
	return c.listFeedback(ctx, "/feedback/public/admin", false)
}

func (c *Client) listFeedback(ctx context.Context, path string, authed bool) ([]models.Feedback, error) {
	envelope, err := c.get(ctx, path, authed)
	if err != nil {
		return nil, err
	}
	var feedback []models.Feedback
	if err := decodeData(envelope, &feedback); err != nil {
		return nil, err
	}
	return feedback, nil
}

// UpdateFeedbackStatus marks feedback reviewed (admin).
func (c *Client) UpdateFeedbackStatus(ctx context.Context, id string, status models.FeedbackStatus) (*models.Feedback, error) {
	envelope, err := c.put(ctx, "/feedback/"+id, map[string]any{"status": status}, true)
	if err != nil {
		return nil, err
	}
	var feedback models.Feedback
	if err := decodeData(envelope, &feedback); err != nil {
		return nil, err
	}
	return &feedback, nil
}

// DeleteFeedback removes feedback (admin).
func (c *Client) DeleteFeedback(ctx context.Context, id string) error {
	_, err := c.delete(ctx, "/feedback/"+id, true)
	return err
}
