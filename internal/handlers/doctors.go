package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"carelink-server/internal/models"
	"carelink-server/internal/utils"
)

// DoctorHandler handles doctor directory and admin management requests.
type DoctorHandler struct {
	DB *gorm.DB
}

// NewDoctorHandler creates a new DoctorHandler.
func NewDoctorHandler(db *gorm.DB) *DoctorHandler {
	return &DoctorHandler{DB: db}
}

// GetDoctors handles GET /doctors.
func (h *DoctorHandler) GetDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Preload("User").Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// GetAvailableDoctors handles GET /doctors/available.
func (h *DoctorHandler) GetAvailableDoctors(c *gin.Context) {
	var doctors []models.Doctor
	if err := h.DB.Preload("User").Where("is_active = ?", true).Find(&doctors).Error; err != nil {
		utils.InternalServerError(c, "Failed to fetch available doctors: "+err.Error())
		return
	}
	utils.Success(c, "Available doctors fetched successfully", doctors)
}

// GetDoctorsBySpecialization handles GET /doctors/specialization/:specialization.
func (h *DoctorHandler) GetDoctorsBySpecialization(c *gin.Context) {
	specialization := c.Param("specialization")

	var doctors []models.Doctor
	err := h.DB.Preload("User").
		Where("specialization = ? AND is_active = ?", specialization, true).
		Find(&doctors).Error
	if err != nil {
		utils.InternalServerError(c, "Failed to fetch doctors: "+err.Error())
		return
	}
	utils.Success(c, "Doctors fetched successfully", doctors)
}

// CreateDoctorRequest represents the request body for creating a doctor (admin).
// Creates the login account and the doctor profile together.
type CreateDoctorRequest struct {
	FirstName      string              `json:"firstName" binding:"required"`
	LastName       string              `json:"lastName" binding:"required"`
	Email          string              `json:"email" binding:"required,email"`
	Password       string              `json:"password" binding:"required,min=8"`
	Phone          string              `json:"phone"`
	Specialization string              `json:"specialization" binding:"required"`
	Experience     int                 `json:"experience"`
	Availability   models.Availability `json:"availability"`
}

// CreateDoctor handles POST /doctors (admin).
func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	var req CreateDoctorRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	var existingUser models.User
	if err := h.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.BadRequest(c, "User with this email already exists")
		return
	} else if err != gorm.ErrRecordNotFound {
		utils.InternalServerError(c, "Database error: "+err.Error())
		return
	}

	user := models.User{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      models.RoleDoctor,
	}
	if err := user.SetPassword(req.Password); err != nil {
		utils.InternalServerError(c, "Failed to hash password: "+err.Error())
		return
	}

	doctor := models.Doctor{
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Availability:   req.Availability,
		IsActive:       true,
	}

	// Account and profile are created together or not at all.
	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		doctor.UserID = user.ID
		return tx.Create(&doctor).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to create doctor: "+err.Error())
		return
	}

	doctor.User = user
	utils.Created(c, "Doctor created successfully", doctor)
}

// UpdateDoctorRequest represents the request body for updating a doctor (admin).
type UpdateDoctorRequest struct {
	FirstName      string               `json:"firstName"`
	LastName       string               `json:"lastName"`
	Phone          string               `json:"phone"`
	Specialization string               `json:"specialization"`
	Experience     *int                 `json:"experience"`
	Availability   *models.Availability `json:"availability"`
	IsActive       *bool                `json:"isActive"`
}

// UpdateDoctor handles PUT /doctors/:id (admin).
func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	doctorID := c.Param("id")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid Doctor ID format")
		return
	}

	var req UpdateDoctorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request payload: "+err.Error())
		return
	}

	var doctor models.Doctor
	if err := h.DB.Preload("User").First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	if req.FirstName != "" {
		doctor.User.FirstName = req.FirstName
	}
	if req.LastName != "" {
		doctor.User.LastName = req.LastName
	}
	if req.Phone != "" {
		doctor.User.Phone = req.Phone
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.Experience != nil {
		doctor.Experience = *req.Experience
	}
	if req.Availability != nil {
		doctor.Availability = *req.Availability
	}
	if req.IsActive != nil {
		doctor.IsActive = *req.IsActive
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&doctor.User).Error; err != nil {
			return err
		}
		return tx.Save(&doctor).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to update doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor updated successfully", doctor)
}

// DeleteDoctor handles DELETE /doctors/:id (admin). The profile is removed;
// the login account is kept but demoted so historical appointments still
// resolve a user.
func (h *DoctorHandler) DeleteDoctor(c *gin.Context) {
	doctorID := c.Param("id")
	if _, err := uuid.Parse(doctorID); err != nil {
		utils.BadRequest(c, "Invalid Doctor ID format")
		return
	}

	var doctor models.Doctor
	if err := h.DB.First(&doctor, "id = ?", doctorID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.NotFound(c, "Doctor not found")
		} else {
			utils.InternalServerError(c, "Database error: "+err.Error())
		}
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Doctor{}, "id = ?", doctorID).Error; err != nil {
			return err
		}
		return tx.Model(&models.User{}).Where("id = ?", doctor.UserID).
			Update("role", models.RoleUser).Error
	})
	if err != nil {
		utils.InternalServerError(c, "Failed to delete doctor: "+err.Error())
		return
	}

	utils.Success(c, "Doctor deleted successfully", nil)
}
