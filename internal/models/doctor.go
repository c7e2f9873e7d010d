package models

// TimeSlot is a bookable block in a doctor's availability. Date and
// AppointmentID are only set once the slot has been claimed.
type TimeSlot struct {
	StartTime     string `json:"startTime"` // HH:MM
	EndTime       string `json:"endTime"`   // HH:MM
	Date          string `json:"date,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
}

// Availability describes the days a doctor works and the slots offered.
type Availability struct {
	Days      []string   `json:"days"`
	TimeSlots []TimeSlot `json:"timeSlots"`
}

// Doctor is a doctor profile attached to a user account.
type Doctor struct {
	BaseModel
	UserID         string       `gorm:"size:36;uniqueIndex" json:"userId"`
	Specialization string       `gorm:"size:100;index" json:"specialization"`
	Experience     int          `json:"experience"`
	Availability   Availability `gorm:"serializer:json" json:"availability"`
	IsActive       bool         `gorm:"default:true" json:"isActive"`
	Rating         float64      `gorm:"default:0" json:"rating"`

	User User `gorm:"foreignKey:UserID" json:"user"`
}
