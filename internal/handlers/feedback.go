package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-server/internal/middleware"
	"carelink-server/internal/models"
	"carelink-server/internal/utils"
)

// FeedbackHandler handles patient feedback requests.
type FeedbackHandler struct {
	DB *gorm.DB
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(db *gorm.DB) *FeedbackHandler {
	return &FeedbackHandler{DB: db}
}

// CreateFeedbackRequest represents the request body for submitting feedback.
type CreateFeedbackRequest struct {
	AppointmentID string              `json:"appointmentId" binding:"required,uuid"`
	FeedbackType  models.FeedbackType `json:"feedbackType" binding:"required,oneof=compliment complaint suggestion"`
	Rating        int                 `json:"rating" binding:"required,min=1,max=5"`
	Comment       string              `json:"comment"`
}

// CreateFeedback handles POST /feedback. Patients may only review their own
// completed appointments, once.
func (h *FeedbackHandler) CreateFeedback(c *gin.Context) {
	var req CreateFeedbackRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, err := patientForUser(h.DB, userID)
	if err != nil {
		utils.NotFound(c, "Patient profile not found for current user")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", req.AppointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if appointment.PatientID != patient.ID {
		utils.Forbidden(c, "You can only leave feedback for your own appointments.")
		return
	}
	if appointment.Status != models.StatusCompleted {
		utils.BadRequest(c, "Feedback can only be left for completed appointments.")
		return
	}

	var existing models.Feedback
	if err := h.DB.Where("appointment_id = ? AND patient_id = ?", appointment.ID, patient.ID).
		First(&existing).Error; err == nil {
		utils.BadRequest(c, "Feedback for this appointment has already been submitted")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	feedback := models.Feedback{
		PatientID:     patient.ID,
		DoctorID:      appointment.DoctorID,
		AppointmentID: appointment.ID,
		FeedbackType:  req.FeedbackType,
		Rating:        req.Rating,
		Comment:       req.Comment,
		Status:        models.FeedbackPending,
	}

	if err := h.DB.Create(&feedback).Error; err != nil {
		utils.InternalServerError(c, "Failed to create feedback: "+err.Error())
		return
	}

	h.refreshDoctorRating(appointment.DoctorID)

	utils.Created(c, "Feedback submitted successfully", feedback)
}

// GetMyFeedback handles GET /feedback/me.
func (h *FeedbackHandler) GetMyFeedback(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	patient, err := patientForUser(h.DB, userID)
	if err != nil {
		utils.NotFound(c, "Patient profile not found for current user")
		return
	}

	var feedback []models.Feedback
	err = h.DB.Preload("Doctor.User").
		Where("patient_id = ?", patient.ID).
		Order("created_at desc").
		Find(&feedback).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch feedback: "+err.Error())
		return
	}

	utils.Success(c, "Feedback fetched successfully", feedback)
}

// GetDoctorFeedback handles GET /feedback/doctor/:id.
func (h *FeedbackHandler) GetDoctorFeedback(c *gin.Context) {
	doctorID := c.Param("id")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid Doctor ID format")
		return
	}

	var feedback []models.Feedback
	err := h.DB.Preload("Patient.User").
		Where("doctor_id = ?", doctorID).
		Order("created_at desc").
		Find(&feedback).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch feedback: "+err.Error())
		return
	}

	utils.Success(c, "Feedback fetched successfully", feedback)
}

// AdminListFeedback handles GET /feedback/public/admin. Served without auth
// for wire compatibility with the existing admin pages.
func (h *FeedbackHandler) AdminListFeedback(c *gin.Context) {
	var feedback []models.Feedback
	err := h.DB.Preload("Patient.User").Preload("Doctor.User").
		Order("created_at desc").
		Find(&feedback).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch feedback: "+err.Error())
		return
	}

	utils.Success(c, "Feedback fetched successfully", feedback)
}

// UpdateFeedbackRequest represents the request body for admin feedback review.
type UpdateFeedbackRequest struct {
	Status models.FeedbackStatus `json:"status" binding:"required,oneof=pending completed"`
}

// UpdateFeedback handles PUT /feedback/:id (admin).
func (h *FeedbackHandler) UpdateFeedback(c *gin.Context) {
	feedbackID := c.Param("id")
	if _, err := uuid.Parse(feedbackID); err != nil {
		utils.BadRequest(c, "Invalid Feedback ID format")
		return
	}

	var req UpdateFeedbackRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var feedback models.Feedback
	if err := h.DB.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Feedback not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	feedback.Status = req.Status
	if err := h.DB.Save(&feedback).Error; err != nil {
		utils.InternalServerError(c, "Failed to update feedback: "+err.Error())
		return
	}

	utils.Success(c, "Feedback updated successfully", feedback)
}

// DeleteFeedback handles DELETE /feedback/:id (admin).
func (h *FeedbackHandler) DeleteFeedback(c *gin.Context) {
	feedbackID := c.Param("id")
	if _, err := uuid.Parse(feedbackID); err != nil {
		utils.BadRequest(c, "Invalid Feedback ID format")
		return
	}

	var feedback models.Feedback
	if err := h.DB.First(&feedback, "id = ?", feedbackID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Feedback not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if err := h.DB.Delete(&models.Feedback{}, "id = ?", feedbackID).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete feedback: "+err.Error())
		return
	}

	h.refreshDoctorRating(feedback.DoctorID)

	utils.Success(c, "Feedback deleted successfully", nil)
}

// refreshDoctorRating recomputes the doctor's average rating. Rating drift
// is tolerable, so failures only matter when debugging.
func (h *FeedbackHandler) refreshDoctorRating(doctorID string) {
	var avg float64
	err := h.DB.Model(&models.Feedback{}).
		Where("doctor_id = ?", doctorID).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&avg).Error
	if err != nil {
		return
	}
	h.DB.Model(&models.Doctor{}).Where("id = ?", doctorID).Update("rating", avg)
}
