package models

import (
	"time"
)

// AppointmentStatus represents the status of an appointment.
// The column is a plain string on purpose: the historical data carries a
// wider vocabulary than the admin UI ever offered, so unknown values must
// round-trip untouched.
type AppointmentStatus = string

const (
	StatusScheduled   AppointmentStatus = "scheduled"
	StatusConfirmed   AppointmentStatus = "confirmed"
	StatusPending     AppointmentStatus = "pending"
	StatusCompleted   AppointmentStatus = "completed"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
	StatusNoShow      AppointmentStatus = "no-show"
	StatusInProgress  AppointmentStatus = "in-progress"
)

// Appointment represents a scheduled medical appointment. Rescheduling keeps
// an audit trail: OriginalDate holds the first booked date and is never
// overwritten once set, RescheduleCount increments on every date or doctor
// change.
type Appointment struct {
	BaseModel
	PatientID       string     `gorm:"size:36;index" json:"patientId"`
	DoctorID        string     `gorm:"size:36;index" json:"doctorId"`
	Date            time.Time  `json:"date"`
	Time            string     `gorm:"size:5" json:"time"` // HH:MM, redundant with Date for legacy consumers
	Reason          string     `gorm:"size:255" json:"reason"`
	Status          string     `gorm:"size:20;default:'pending'" json:"status"`
	IsRescheduled   bool       `gorm:"default:false" json:"isRescheduled"`
	OriginalDate    *time.Time `json:"originalDate,omitempty"`
	RescheduleCount int        `gorm:"default:0" json:"rescheduleCount"`
	Notes           string     `gorm:"type:text" json:"notes"`

	// Relations
	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

// IsCancellable reports whether a patient may still cancel the appointment.
func (a *Appointment) IsCancellable() bool {
	switch a.Status {
	case StatusPending, StatusScheduled, StatusConfirmed:
		return true
	}
	return false
}

// MarkRescheduled records the audit trail for a date/doctor change.
func (a *Appointment) MarkRescheduled() {
	if a.OriginalDate == nil {
		d := a.Date
		a.OriginalDate = &d
	}
	a.RescheduleCount++
	a.IsRescheduled = true
}
