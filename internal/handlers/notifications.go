package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carelink-server/internal/models"
	"carelink-server/internal/notify"
	"carelink-server/internal/utils"
)

// NotificationHandler handles notification requests.
type NotificationHandler struct {
	DB     *gorm.DB
	Notify *notify.Service
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(db *gorm.DB, svc *notify.Service) *NotificationHandler {
	return &NotificationHandler{DB: db, Notify: svc}
}

// CreateNotificationRequest represents the request body for POST /notifications.
// Callers address either a user account directly (recipientId) or a patient
// profile (patientId); exactly one is required.
type CreateNotificationRequest struct {
	RecipientID   string                  `json:"recipientId"`
	PatientID     string                  `json:"patientId"`
	AppointmentID string                  `json:"appointmentId"`
	Type          models.NotificationType `json:"type"`
	Message       string                  `json:"message" binding:"required"`
	Channel       string                  `json:"channel"`
}

// CreateNotification handles POST /notifications. The caller treats this as
// best-effort; delivery failures still return 201 because the notification
// row was stored.
func (h *NotificationHandler) CreateNotification(c *gin.Context) {
	var req CreateNotificationRequest
	if !utils.BindAndValidate(c, &req) {
		return
	}

	recipientID := req.RecipientID
	if recipientID == "" && req.PatientID != "" {
		var patient models.Patient
		if err := h.DB.First(&patient, "id = ?", req.PatientID).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				utils.NotFound(c, "Patient not found")
			} else {
				utils.InternalServerError(c, "Database error: "+err.Error())
			}
			return
		}
		recipientID = patient.UserID
	}
	if recipientID == "" {
		utils.BadRequest(c, "Either recipientId or patientId is required")
		return
	}

	notifType := req.Type
	if notifType == "" {
		notifType = models.NotificationGeneral
	}

	notification := models.Notification{
		RecipientID:   recipientID,
		AppointmentID: req.AppointmentID,
		Type:          notifType,
		Message:       req.Message,
		Channel:       req.Channel,
	}

	if err := h.Notify.Dispatch(c.Request.Context(), &notification); err != nil {
		utils.InternalServerError(c, "Failed to create notification: "+err.Error())
		return
	}

	utils.Created(c, "Notification created successfully", notification)
}
