package models

// FeedbackType classifies patient feedback.
type FeedbackType string

const (
	FeedbackCompliment FeedbackType = "compliment"
	FeedbackComplaint  FeedbackType = "complaint"
	FeedbackSuggestion FeedbackType = "suggestion"
)

// FeedbackStatus tracks admin review of a feedback entry.
type FeedbackStatus string

const (
	FeedbackPending   FeedbackStatus = "pending"
	FeedbackCompleted FeedbackStatus = "completed"
)

// Feedback is patient feedback about a completed appointment.
type Feedback struct {
	BaseModel
	PatientID     string         `gorm:"size:36;index" json:"patientId"`
	DoctorID      string         `gorm:"size:36;index" json:"doctorId"`
	AppointmentID string         `gorm:"size:36;index" json:"appointmentId"`
	FeedbackType  FeedbackType   `gorm:"size:20" json:"feedbackType"`
	Rating        int            `json:"rating"` // 1-5
	Comment       string         `gorm:"type:text" json:"comment"`
	Status        FeedbackStatus `gorm:"size:20;default:'pending'" json:"status"`

	Patient *Patient `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *Doctor  `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}
