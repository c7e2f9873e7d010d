package client

import (
	"context"

	"carelink-server/internal/models"
)

// DoctorCreate is the payload for POST /doctors (admin).
type DoctorCreate struct {
	FirstName      string              `json:"firstName"`
	LastName       string              `json:"lastName"`
	Email          string              `json:"email"`
	Password       string              `json:"password"`
	Phone          string              `json:"phone,omitempty"`
	Specialization string              `json:"specialization"`
	Experience     int                 `json:"experience,omitempty"`
	Availability   models.Availability `json:"availability"`
}

// DoctorUpdate is the payload for PUT /doctors/:id (admin).
type DoctorUpdate struct {
	FirstName      string               `json:"firstName,omitempty"`
	LastName       string               `json:"lastName,omitempty"`
	Phone          string               `json:"phone,omitempty"`
	Specialization string               `json:"specialization,omitempty"`
	Experience     *int                 `json:"experience,omitempty"`
	Availability   *models.Availability `json:"availability,omitempty"`
	IsActive       *bool                `json:"isActive,omitempty"`
}

func (c *Client) listDoctors(ctx context.Context, path string) ([]DoctorRecord, error) {
	envelope, err := c.get(ctx, path, true)
	if err != nil {
		return nil, err
	}
	raw, err := decodeRawList(envelope)
	if err != nil {
		return nil, err
	}
	records := make([]DoctorRecord, len(raw))
	for i, entry := range raw {
		records[i] = NormalizeDoctor(entry)
	}
	return records, nil
}

// ListDoctors fetches the full doctor directory, normalized.
func (c *Client) ListDoctors(ctx context.Context) ([]DoctorRecord, error) {
	return c.listDoctors(ctx, "/doctors")
}

// ListAvailableDoctors fetches doctors currently accepting appointments.
func (c *Client) ListAvailableDoctors(ctx context.Context) ([]DoctorRecord, error) {
	return c.listDoctors(ctx, "/doctors/available")
}

// ListDoctorsBySpecialization fetches active doctors for one specialization.
func (c *Client) ListDoctorsBySpecialization(ctx context.Context, specialization string) ([]DoctorRecord, error) {
	return c.listDoctors(ctx, "/doctors/specialization/"+specialization)
}

// CreateDoctor creates a doctor account and profile (admin).
func (c *Client) CreateDoctor(ctx context.Context, req DoctorCreate) (*models.Doctor, error) {
	envelope, err := c.post(ctx, "/doctors", req, true)
	if err != nil {
		return nil, err
	}
	var doctor models.Doctor
	if err := decodeData(envelope, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// UpdateDoctor updates a doctor profile (admin).
func (c *Client) UpdateDoctor(ctx context.Context, id string, req DoctorUpdate) (*models.Doctor, error) {
	envelope, err := c.put(ctx, "/doctors/"+id, req, true)
	if err != nil {
		return nil, err
	}
	var doctor models.Doctor
	if err := decodeData(envelope, &doctor); err != nil {
		return nil, err
	}
	return &doctor, nil
}

// DeleteDoctor removes a doctor profile (admin).
func (c *Client) DeleteDoctor(ctx context.Context, id string) error {
	_, err := c.delete(ctx, "/doctors/"+id, true)
	return err
}
