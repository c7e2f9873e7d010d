package models

import (
	"time"
)

// MedicalReportType represents the type of medical report
type MedicalReportType string

const (
	ReportTypeConsultation  MedicalReportType = "ConsultationNote"
	ReportTypeLabResult     MedicalReportType = "LabResult"
	ReportTypePrescription  MedicalReportType = "Prescription"
	ReportTypeImagingReport MedicalReportType = "ImagingReport"
	ReportTypeDischarge     MedicalReportType = "DischargeSummary"
)

// MedicalReport is a report a patient can view from their dashboard.
type MedicalReport struct {
	BaseModel
	PatientID  string            `gorm:"size:36;index" json:"patientId"`
	DoctorID   string            `gorm:"size:36;index" json:"doctorId"`
	ReportType MedicalReportType `gorm:"size:50" json:"reportType"`
	ReportDate time.Time         `json:"date"`
	Title      string            `gorm:"size:255;not null" json:"title"`
	Department string            `gorm:"size:100" json:"department"`
	Summary    string            `gorm:"type:text" json:"summary"`
	Details    string            `gorm:"type:text" json:"details"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"-"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"-"`
}
