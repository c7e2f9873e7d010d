package client

import (
	"context"
	"encoding/json"
	"time"

	"carelink-server/internal/models"
)

// PatientUpdate is the payload for PUT /patients/me and the admin variant.
type PatientUpdate struct {
	FirstName          string                   `json:"firstName,omitempty"`
	LastName           string                   `json:"lastName,omitempty"`
	Phone              string                   `json:"phone,omitempty"`
	DateOfBirth        *time.Time               `json:"dateOfBirth,omitempty"`
	BloodGroup         string                   `json:"bloodGroup,omitempty"`
	Address            string                   `json:"address,omitempty"`
	EmergencyContact   *models.EmergencyContact `json:"emergencyContact,omitempty"`
	Allergies          *[]string                `json:"allergies,omitempty"`
	MedicalHistory     *[]string                `json:"medicalHistory,omitempty"`
	CurrentMedications *[]string                `json:"currentMedications,omitempty"`
}

// GetMyPatient fetches the current patient's profile.
func (c *Client) GetMyPatient(ctx context.Context) (*models.Patient, error) {
	envelope, err := c.get(ctx, "/patients/me", true)
	if err != nil {
		return nil, err
	}
	var patient models.Patient
	if err := decodeData(envelope, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// UpdateMyPatient updates the current patient's profile and returns the
// server's copy.
func (c *Client) UpdateMyPatient(ctx context.Context, req PatientUpdate) (*models.Patient, error) {
	envelope, err := c.put(ctx, "/patients/me", req, true)
	if err != nil {
		return nil, err
	}
	var patient models.Patient
	if err := decodeData(envelope, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}

// AdminListPatients fetches all patients, normalized (admin).
func (c *Client) AdminListPatients(ctx context.Context) ([]PatientRecord, error) {
	envelope, err := c.get(ctx, "/patients/admin", true)
	if err != nil {
		return nil, err
	}
	raw, err := decodeRawList(envelope)
	if err != nil {
		return nil, err
	}
	records := make([]PatientRecord, len(raw))
	for i, entry := range raw {
		records[i] = NormalizePatient(entry)
	}
	return records, nil
}

// AdminGetPatient fetches one patient, normalized (admin).
func (c *Client) AdminGetPatient(ctx context.Context, id string) (*PatientRecord, error) {
	envelope, err := c.get(ctx, "/patients/admin/patients/"+id, true)
	if err != nil {
		return nil, err
	}
	if !envelope.HasData() {
		return nil, nil
	}
	var raw map[string]any
	if err := json.Unmarshal(envelope.Data, &raw); err != nil {
		return nil, err
	}
	record := NormalizePatient(raw)
	return &record, nil
}

// AdminUpdatePatient updates one patient (admin).
func (c *Client) AdminUpdatePatient(ctx context.Context, id string, req PatientUpdate) (*models.Patient, error) {
	envelope, err := c.put(ctx, "/patients/admin/patients/"+id, req, true)
	if err != nil {
		return nil, err
	}
	var patient models.Patient
	if err := decodeData(envelope, &patient); err != nil {
		return nil, err
	}
	return &patient, nil
}
