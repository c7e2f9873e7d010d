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

// ReportHandler handles medical report requests.
type ReportHandler struct {
	DB *gorm.DB
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{DB: db}
}

// CreateReportRequest represents the request body for creating a medical report.
type CreateReportRequest struct {
	PatientID  string                   `json:"patientId" binding:"required,uuid"`
	ReportType models.MedicalReportType `json:"reportType" binding:"required"`
	Date       time.Time                `json:"date" binding:"required"`
	Title      string                   `json:"title" binding:"required"`
	Department string                   `json:"department"`
	Summary    string                   `json:"summary"`
	Details    string                   `json:"details"`
}

// CreateReport handles POST /reports (doctor).
func (h *ReportHandler) CreateReport(c *gin.Context) {
	var req CreateReportRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	userID, exists := middleware.GetUserIDFromContext(c)
	if !exists {
		utils.Unauthorized(c, "User not authenticated")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "user_id = ?", userID).Error; err != nil {
		utils.NotFound(c, "Doctor profile not found for current user")
		return
	}

	var patient models.Patient
	if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Patient not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	report := models.MedicalReport{
		PatientID:  patient.ID,
		DoctorID:   doctor.ID,
		ReportType: req.ReportType,
		ReportDate: req.Date,
		Title:      req.Title,
		Department: req.Department,
		Summary:    req.Summary,
		Details:    req.Details,
	}

	if err := h.DB.Create(&report).Error; err != nil {
		utils.InternalServerError(c, "Failed to create report: "+err.Error())
		return
	}

	utils.Created(c, "Report created successfully", report)
}

// GetReportsForPatient handles GET /reports/patient/:patientId. Patients see
// their own reports; doctors and admins see any patient's.
func (h *ReportHandler) GetReportsForPatient(c *gin.Context) {
	patientID := c.Param("patientId")
	if _, err := uuid.Parse(patientID); err != nil {
		utils.BadRequest(c, "Invalid Patient ID format")
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient || userRole == models.RoleUser {
		patient, err := patientForUser(h.DB, userID)
		if err != nil || patient.ID != patientID {
			utils.Forbidden(c, "You are not authorized to view these reports")
			return
		}
	}

	var reports []models.MedicalReport
	err := h.DB.Where("patient_id = ?", patientID).
		Order("report_date desc").
		Find(&reports).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch reports: "+err.Error())
		return
	}

	utils.Success(c, "Reports fetched successfully", reports)
}

// GetReportByID handles GET /reports/:id.
func (h *ReportHandler) GetReportByID(c *gin.Context) {
	reportID := c.Param("id")
	if _, err := uuid.Parse(reportID); err != nil {
		utils.BadRequest(c, "Invalid Report ID format")
		return
	}

	var report models.MedicalReport
	if err := h.DB.First(&report, "id = ?", reportID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Report not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	userID, _ := middleware.GetUserIDFromContext(c)
	userRole, _ := middleware.GetUserRoleFromContext(c)

	if userRole == models.RolePatient || userRole == models.RoleUser {
		patient, err := patientForUser(h.DB, userID)
		if err != nil || patient.ID != report.PatientID {
			utils.Forbidden(c, "You are not authorized to view this report")
			return
		}
	}

	utils.Success(c, "Report fetched successfully", report)
}
