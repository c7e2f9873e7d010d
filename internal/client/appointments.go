package client

import (
	"context"
	"time"

	"carelink-server/internal/models"
)

// AppointmentUpdate is the payload for PUT /appointments/:id. The audit
// fields are sent for wire compatibility with older backends; the current
// server recomputes them itself.
type AppointmentUpdate struct {
	Status          string     `json:"status,omitempty"`
	Date            *time.Time `json:"date,omitempty"`
	Time            string     `json:"time,omitempty"`
	Doctor          string     `json:"doctor,omitempty"`
	Notes           string     `json:"notes,omitempty"`
	IsRescheduled   *bool      `json:"isRescheduled,omitempty"`
	OriginalDate    *time.Time `json:"originalDate,omitempty"`
	RescheduleCount *int       `json:"rescheduleCount,omitempty"`
}

// BookingRequest is the payload for POST /appointments/book.
type BookingRequest struct {
	DoctorID  string    `json:"doctorId"`
	PatientID string    `json:"patientId,omitempty"`
	Date      time.Time `json:"date"`
	Time      string    `json:"time,omitempty"`
	Reason    string    `json:"reason"`
	Notes     string    `json:"notes,omitempty"`
}

// ListPublicAppointments fetches the unauthenticated appointment list the
// admin pages use.
func (c *Client) ListPublicAppointments(ctx context.Context) ([]models.Appointment, error) {
	envelope, err := c.get(ctx, "/appointments/public", false)
	if err != nil {
		return nil, err
	}
	var appointments []models.Appointment
	if err := decodeData(envelope, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// ListAppointments fetches the appointments visible to the current session.
func (c *Client) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	envelope, err := c.get(ctx, "/appointments", true)
	if err != nil {
		return nil, err
	}
	var appointments []models.Appointment
	if err := decodeData(envelope, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// ListAppointmentsNeedingFeedback fetches completed appointments awaiting
// feedback from the current patient.
func (c *Client) ListAppointmentsNeedingFeedback(ctx context.Context) ([]models.Appointment, error) {
	envelope, err := c.get(ctx, "/appointments/needFeedback", true)
	if err != nil {
		return nil, err
	}
	var appointments []models.Appointment
	if err := decodeData(envelope, &appointments); err != nil {
		return nil, err
	}
	return appointments, nil
}

// BookAppointment books a new appointment.
func (c *Client) BookAppointment(ctx context.Context, req BookingRequest) (*models.Appointment, error) {
	envelope, err := c.post(ctx, "/appointments/book", req, true)
	if err != nil {
		return nil, err
	}
	var appointment models.Appointment
	if err := decodeData(envelope, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// UpdateAppointment issues PUT /appointments/:id. The returned appointment is
// nil (with a nil error) when the server replied 2xx without a data field;
// callers fall back to merging locally.
func (c *Client) UpdateAppointment(ctx context.Context, id string, update AppointmentUpdate) (*models.Appointment, error) {
	envelope, err := c.put(ctx, "/appointments/"+id, update, true)
	if err != nil {
		return nil, err
	}
	if !envelope.HasData() {
		return nil, nil
	}
	var appointment models.Appointment
	if err := decodeData(envelope, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}

// CancelAppointment issues PUT /appointments/:id/cancel.
func (c *Client) CancelAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	envelope, err := c.put(ctx, "/appointments/"+id+"/cancel", nil, true)
	if err != nil {
		return nil, err
	}
	var appointment models.Appointment
	if err := decodeData(envelope, &appointment); err != nil {
		return nil, err
	}
	return &appointment, nil
}
