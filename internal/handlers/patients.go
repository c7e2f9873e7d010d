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

// PatientHandler handles patient self-service and admin management requests.
type PatientHandler struct {
	DB *gorm.DB
}

// NewPatientHandler creates a new PatientHandler.
func NewPatientHandler(db *gorm.DB) *PatientHandler {
	return &PatientHandler{DB: db}
}

// GetMyProfile handles GET /patients/me.
func (h *PatientHandler) GetMyProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var patient models.Patient
	err := h.DB.Preload("User").Preload("MedicalReports").
		First(&patient, "user_id = ?", userID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Patient profile fetched successfully", patient)
}

// UpdatePatientRequest represents the request body for patient profile updates.
type UpdatePatientRequest struct {
	FirstName          string                   `json:"firstName"`
	LastName           string                   `json:"lastName"`
	Phone              string                   `json:"phone"`
	DateOfBirth        *time.Time               `json:"dateOfBirth"`
	BloodGroup         string                   `json:"bloodGroup"`
	Address            string                   `json:"address"`
	EmergencyContact   *models.EmergencyContact `json:"emergencyContact"`
	Allergies          *[]string                `json:"allergies"`
	MedicalHistory     *[]string                `json:"medicalHistory"`
	CurrentMedications *[]string                `json:"currentMedications"`
}

// UpdateMyProfile handles PUT /patients/me.
func (h *PatientHandler) UpdateMyProfile(c *gin.Context) {
	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var patient models.Patient
	if err := h.DB.Preload("User").First(&patient, "user_id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient profile not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	h.applyUpdate(c, &patient)
}

// AdminListPatients handles GET /patients/admin.
func (h *PatientHandler) AdminListPatients(c *gin.Context) {
	var patients []models.Patient
	if err := h.DB.Preload("User").Find(&patients).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch patients: "+err.Error())
		return
	}
	utils.Success(c, "Patients fetched successfully", patients)
}

// AdminGetPatient handles GET /patients/admin/patients/:id.
func (h *PatientHandler) AdminGetPatient(c *gin.Context) {
	patientID := c.Param("id")
	if _, err := uuid.Parse(patientID); err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	var patient models.Patient
	err := h.DB.Preload("User").Preload("MedicalReports").
		First(&patient, "id = ?", patientID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	utils.Success(c, "Patient fetched successfully", patient)
}

// AdminUpdatePatient handles PUT /patients/admin/patients/:id.
func (h *PatientHandler) AdminUpdatePatient(c *gin.Context) {
	patientID := c.Param("id")
	if _, err := uuid.Parse(patientID); err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	var patient models.Patient
	if err := h.DB.Preload("User").First(&patient, "id = ?", patientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	h.applyUpdate(c, &patient)
}

// applyUpdate binds an UpdatePatientRequest and saves the changed fields.
func (h *PatientHandler) applyUpdate(c *gin.Context, patient *models.Patient) {
	var req UpdatePatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	if req.FirstName != "" {
		patient.User.FirstName = req.FirstName
	}
	if req.LastName != "" {
		patient.User.LastName = req.LastName
	}
	if req.Phone != "" {
		patient.User.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		patient.DateOfBirth = req.DateOfBirth
	}
	if req.BloodGroup != "" {
		patient.BloodGroup = req.BloodGroup
	}
	if req.Address != "" {
		patient.Address = req.Address
	}
	if req.EmergencyContact != nil {
		patient.EmergencyContact = *req.EmergencyContact
	}
	if req.Allergies != nil {
		patient.Allergies = *req.Allergies
	}
	if req.MedicalHistory != nil {
		patient.MedicalHistory = *req.MedicalHistory
	}
	if req.CurrentMedications != nil {
		patient.CurrentMedications = *req.CurrentMedications
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&patient.User).Error; err != nil {
			return err
		}
		return tx.Save(patient).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to update patient: "+err.Error())
		return
	}

	utils.Success(c, "Patient updated successfully", patient)
}
