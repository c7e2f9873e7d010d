package client

import (
	"encoding/json"

	"carelink-server/internal/utils"
)

// The doctor and patient payloads historically arrived in two shapes: name
// and contact fields flattened onto the object, or nested under "user".
// Normalization happens once, here at the API boundary, so everything past
// the client works with a single canonical record type.

// DoctorRecord is the canonical client-side doctor representation.
type DoctorRecord struct {
	ID             string
	Name           string
	Initials       string
	Email          string
	Phone          string
	Specialization string
	Experience     int
	IsActive       bool
	Rating         float64
}

// PatientRecord is the canonical client-side patient representation.
type PatientRecord struct {
	ID               string
	Name             string
	Email            string
	Phone            string
	BloodGroup       string
	Address          string
	EmergencyContact string
}

// NormalizeDoctor converts a raw decoded doctor payload of unknown shape
// into a DoctorRecord. Never fails: missing fields come back zero-valued and
// the name falls back to "Unknown Doctor".
func NormalizeDoctor(raw map[string]any) DoctorRecord {
	record := DoctorRecord{
		ID:             pickString(raw, "id", "_id"),
		Name:           utils.DoctorName(raw),
		Initials:       utils.DoctorInitials(raw),
		Specialization: pickString(raw, "specialization"),
	}

	user, _ := raw["user"].(map[string]any)
	record.Email = pickString(raw, "email")
	if record.Email == "" && user != nil {
		record.Email = pickString(user, "email")
	}
	record.Phone = pickString(raw, "phone")
	if record.Phone == "" && user != nil {
		record.Phone = pickString(user, "phone")
	}

	if v, ok := raw["experience"].(float64); ok {
		record.Experience = int(v)
	}
	if v, ok := raw["isActive"].(bool); ok {
		record.IsActive = v
	}
	if v, ok := raw["rating"].(float64); ok {
		record.Rating = v
	}

	return record
}

// NormalizePatient converts a raw decoded patient payload into a
// PatientRecord. Address and emergencyContact appear both as plain strings
// and as structured objects in legacy data; both are flattened here.
func NormalizePatient(raw map[string]any) PatientRecord {
	record := PatientRecord{
		ID:         pickString(raw, "id", "_id"),
		BloodGroup: pickString(raw, "bloodGroup", "bloodType"),
	}

	user, _ := raw["user"].(map[string]any)
	first := pickString(raw, "firstName")
	last := pickString(raw, "lastName")
	if first == "" && last == "" && user != nil {
		first = pickString(user, "firstName")
		last = pickString(user, "lastName")
	}
	switch {
	case first != "" && last != "":
		record.Name = first + " " + last
	case first != "":
		record.Name = first
	case last != "":
		record.Name = last
	}

	record.Email = pickString(raw, "email")
	if record.Email == "" && user != nil {
		record.Email = pickString(user, "email")
	}
	record.Phone = pickString(raw, "phone")
	if record.Phone == "" && user != nil {
		record.Phone = pickString(user, "phone")
	}

	record.Address = flattenStringOrObject(raw["address"], "street", "city", "state", "zip")
	record.EmergencyContact = flattenStringOrObject(raw["emergencyContact"], "name", "phone", "relationship")

	return record
}

// pickString returns the first non-empty string among the given keys.
func pickString(m map[string]any, keys ...string) string {
	if m == nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := m[key].(string); ok && v != "" {
			return v
		}
	}
	return ""
}

// flattenStringOrObject handles fields that are either a plain string or a
// structured object; object values are joined field by field.
func flattenStringOrObject(v any, keys ...string) string {
	switch value := v.(type) {
	case string:
		return value
	case map[string]any:
		out := ""
		for _, key := range keys {
			if s := pickString(value, key); s != "" {
				if out != "" {
					out += ", "
				}
				out += s
			}
		}
		return out
	default:
		return ""
	}
}

// decodeRawList decodes an envelope data payload into raw maps for
// normalization.
func decodeRawList(envelope *Envelope) ([]map[string]any, error) {
	if !envelope.HasData() {
		return nil, nil
	}
	var raw []map[string]any
	if err := json.Unmarshal(envelope.Data, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
