package models

import (
	"time"
)

// EmergencyContact is stored structured; older records that held a plain
// string are normalized into the Name field on the client side.
type EmergencyContact struct {
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Relationship string `json:"relationship"`
}

// Patient is a patient profile attached to a user account.
type Patient struct {
	BaseModel
	UserID             string           `gorm:"size:36;uniqueIndex" json:"userId"`
	DateOfBirth        *time.Time       `json:"dateOfBirth,omitempty"`
	BloodGroup         string           `gorm:"size:5" json:"bloodGroup,omitempty"`
	Address            string           `gorm:"size:255" json:"address,omitempty"`
	EmergencyContact   EmergencyContact `gorm:"serializer:json" json:"emergencyContact"`
	Allergies          []string         `gorm:"serializer:json" json:"allergies"`
	MedicalHistory     []string         `gorm:"serializer:json" json:"medicalHistory"`
	CurrentMedications []string         `gorm:"serializer:json" json:"currentMedications"`

	User           User            `gorm:"foreignKey:UserID" json:"user"`
	MedicalReports []MedicalReport `gorm:"foreignKey:PatientID" json:"medicalReports,omitempty"`
}
