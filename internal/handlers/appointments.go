package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-server/internal/middleware"
	"carelink-server/internal/models"
	"carelink-server/internal/utils"
)

// AppointmentHandler handles appointment related requests.
type AppointmentHandler struct {
	DB *gorm.DB
}

// NewAppointmentHandler creates a new AppointmentHandler.
func NewAppointmentHandler(db *gorm.DB) *AppointmentHandler {
	return &AppointmentHandler{DB: db}
}

// patientForUser resolves the patient profile belonging to a user account.
func patientForUser(db *gorm.DB, userID string) (*models.Patient, error) {
	var patient models.Patient
	if err := db.First(&patient, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &patient, nil
}

// BookAppointmentRequest represents the request body for booking an appointment.
type BookAppointmentRequest struct {
	DoctorID  string    `json:"doctorId" binding:"required,uuid"`
	PatientID string    `json:"patientId"` // Optional: admins book on behalf of a patient
	Date      time.Time `json:"date" binding:"required"`
	Time      string    `json:"time"`
	Reason    string    `json:"reason" binding:"required"`
	Notes     string    `json:"notes"`
}

// BookAppointment handles POST /appointments/book.
func (h *AppointmentHandler) BookAppointment(c *gin.Context) {
	var req BookAppointmentRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	patientID := req.PatientID
	if userRole == models.RolePatient || userRole == models.RoleUser {
		patient, err := patientForUser(h.DB, userID)
		if err != nil {
			utils.NotFound(c, "Patient profile not found for current user")
			return
		}
		if patientID != "" && patientID != patient.ID {
			utils.Forbidden(c, "Patients can only book appointments for themselves.")
			return
		}
		patientID = patient.ID
	} else if patientID == "" {
		utils.BadRequest(c, "patientId is required when booking on behalf of a patient")
		return
	} else if _, err := uuid.Parse(patientID); err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	// Verify doctor exists and accepts bookings
	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", req.DoctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
		}
		return
	}
	if !doctor.IsActive {
		utils.BadRequest(c, "Doctor is not currently accepting appointments")
		return
	}

	if req.Date.Before(time.Now()) {
		utils.BadRequest(c, "Appointment date must be in the future.")
		return
	}

	appointment := models.Appointment{
		PatientID: patientID,
		DoctorID:  req.DoctorID,
		Date:      req.Date,
		Time:      req.Time,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Status:    models.StatusPending,
	}
	if appointment.Time == "" {
		appointment.Time = req.Date.Format("15:04")
	}

	if err := h.DB.Create(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to create appointment: "+err.Error())
		return
	}

	utils.Created(c, "Appointment booked successfully", appointment)
}

// GetPublicAppointments handles GET /appointments/public. The admin pages
// consume this route without an Authorization header; kept that way to stay
// wire-compatible with existing clients.
func (h *AppointmentHandler) GetPublicAppointments(c *gin.Context) {
	var appointments []models.Appointment
	err := h.DB.
		Preload("Patient.User").
		Preload("Doctor.User").
		Order("date asc").
		Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// GetAppointments handles GET /appointments for the logged-in user.
func (h *AppointmentHandler) GetAppointments(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(c)

	query := h.DB.Preload("Patient.User").Preload("Doctor.User").Order("date asc")

	var appointments []models.Appointment
	var err error

	switch userRole {
	case models.RolePatient, models.RoleUser:
		var patient *models.Patient
		patient, err = patientForUser(h.DB, userID)
		if err != nil {
			utils.NotFound(c, "Patient profile not found for current user")
			return
		}
		err = query.Where("patient_id = ?", patient.ID).Find(&appointments).Error
	case models.RoleDoctor:
		var doctor models.Doctor
		if err = h.DB.First(&doctor, "user_id = ?", userID).Error; err != nil {
			utils.NotFound(c, "Doctor profile not found for current user")
			return
		}
		err = query.Where("doctor_id = ?", doctor.ID).Find(&appointments).Error
	case models.RoleAdmin:
		err = query.Find(&appointments).Error
	default:
		utils.Forbidden(c, "User role not permitted to view appointments. Role: "+string(userRole))
		return
	}

	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments fetched successfully", appointments)
}

// UpdateAppointmentRequest represents the request body for PUT /appointments/:id.
// All fields are optional; the reschedule audit trail (originalDate,
// rescheduleCount, isRescheduled) is computed server-side and client-supplied
// values for it are ignored.
type UpdateAppointmentRequest struct {
	Status   string     `json:"status"`
	Date     *time.Time `json:"date"`
	Time     string     `json:"time"`
	DoctorID string     `json:"doctor"`
	Notes    string     `json:"notes"`
}

// UpdateAppointment handles PUT /appointments/:id (admin reschedule and
// status changes, doctor status changes on own appointments).
func (h *AppointmentHandler) UpdateAppointment(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	canUpdate := userRole == models.RoleAdmin
	if !canUpdate && userRole == models.RoleDoctor {
		var doctor models.Doctor
		if err := h.DB.First(&doctor, "user_id = ?", userID).Error; err == nil {
			canUpdate = doctor.ID == appointment.DoctorID
		}
	}
	if !canUpdate {
		utils.Forbidden(c, "You are not authorized to update this appointment.")
		return
	}

	dateChanged := req.Date != nil && !req.Date.Equal(appointment.Date)
	doctorChanged := req.DoctorID != "" && req.DoctorID != appointment.DoctorID

	if doctorChanged {
		var newDoctor models.Doctor
		if err := h.DB.First(&newDoctor, "id = ?", req.DoctorID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Doctor not found")
			} else {
				utils.InternalServerError(c, "Database error verifying doctor: "+err.Error())
			}
			return
		}
	}

	// Audit trail first: OriginalDate must capture the date being replaced.
	if dateChanged || doctorChanged {
		appointment.MarkRescheduled()
	}

	if dateChanged {
		appointment.Date = *req.Date
		if req.Time == "" {
			appointment.Time = req.Date.Format("15:04")
		}
	}
	if req.Time != "" {
		appointment.Time = req.Time
	}
	if doctorChanged {
		appointment.DoctorID = req.DoctorID
	}
	if req.Status != "" {
		appointment.Status = req.Status
	}
	if req.Notes != "" {
		appointment.Notes = req.Notes
	}

	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to update appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment updated successfully", appointment)
}

// CancelAppointment handles PUT /appointments/:id/cancel.
func (h *AppointmentHandler) CancelAppointment(c *gin.Context) {
	appointmentID := c.Param("id")
	if _, err := uuid.Parse(appointmentID); err != nil {
		utils.BadRequest(c, "Invalid Appointment ID format")
		return
	}

	var appointment models.Appointment
	if err := h.DB.First(&appointment, "id = ?", appointmentID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Appointment not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	canCancel := userRole == models.RoleAdmin
	if !canCancel && (userRole == models.RolePatient || userRole == models.RoleUser) {
		patient, err := patientForUser(h.DB, userID)
		canCancel = err == nil && patient.ID == appointment.PatientID
	}
	if !canCancel && userRole == models.RoleDoctor {
		var doctor models.Doctor
		if err := h.DB.First(&doctor, "user_id = ?", userID).Error; err == nil {
			canCancel = doctor.ID == appointment.DoctorID
		}
	}
	if !canCancel {
		utils.Forbidden(c, "You are not authorized to cancel this appointment.")
		return
	}

	if !appointment.IsCancellable() {
		utils.BadRequest(c, "Appointment can no longer be cancelled (status: "+appointment.Status+")")
		return
	}

	appointment.Status = models.StatusCancelled
	if err := h.DB.Save(&appointment).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel appointment: "+err.Error())
		return
	}

	utils.Success(c, "Appointment cancelled successfully", appointment)
}

// GetAppointmentsNeedingFeedback handles GET /appointments/needFeedback:
// completed appointments of the current patient that have no feedback yet.
func (h *AppointmentHandler) GetAppointmentsNeedingFeedback(c *gin.Context) {
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

	var appointments []models.Appointment
	err = h.DB.
		Preload("Doctor.User").
		Where("patient_id = ? AND status = ?", patient.ID, models.StatusCompleted).
		Where("id NOT IN (?)", h.DB.Model(&models.Feedback{}).Select("appointment_id").Where("patient_id = ?", patient.ID)).
		Order("date desc").
		Find(&appointments).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch appointments: "+err.Error())
		return
	}

	utils.Success(c, "Appointments needing feedback fetched successfully", appointments)
}
