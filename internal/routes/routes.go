package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"carelink-server/internal/config"
	"carelink-server/internal/handlers"
	"carelink-server/internal/middleware"
	"carelink-server/internal/models"
	"carelink-server/internal/notify"
)

// SetupRoutes configures the application routes.
func SetupRoutes(router *gin.Engine, db *gorm.DB, cfg *config.Config, notifySvc *notify.Service) {
	// Initialize handlers
	authHandler := handlers.NewAuthHandler(db, cfg)
	appointmentHandler := handlers.NewAppointmentHandler(db)
	doctorHandler := handlers.NewDoctorHandler(db)
	patientHandler := handlers.NewPatientHandler(db)
	feedbackHandler := handlers.NewFeedbackHandler(db)
	notificationHandler := handlers.NewNotificationHandler(db, notifySvc)
	reportHandler := handlers.NewReportHandler(db)

	// Public routes (no authentication required)
	public := router.Group("/api/v1")
	{
		authRoutes := public.Group("/auth")
		{
			authRoutes.POST("/register", authHandler.Register)
			authRoutes.POST("/login", authHandler.Login)
			authRoutes.POST("/refresh-token", authHandler.RefreshToken)
		}

		// "Public" admin-page variants, served without auth for wire
		// compatibility with the existing frontend.
		public.GET("/appointments/public", appointmentHandler.GetPublicAppointments)
		public.GET("/feedback/public/admin", feedbackHandler.AdminListFeedback)
	}

	// Authenticated routes
	private := router.Group("/api/v1")
	private.Use(middleware.AuthMiddleware(cfg))
	{
		authRoutesPrivate := private.Group("/auth")
		{
			authRoutesPrivate.POST("/logout", authHandler.Logout)
			authRoutesPrivate.GET("/profile", authHandler.GetProfile)
			authRoutesPrivate.PUT("/profile", authHandler.UpdateProfile)
		}

		// Appointment routes
		appointmentRoutes := private.Group("/appointments")
		{
			appointmentRoutes.POST("/book", appointmentHandler.BookAppointment)
			appointmentRoutes.GET("", appointmentHandler.GetAppointments)
			appointmentRoutes.GET("/needFeedback", appointmentHandler.GetAppointmentsNeedingFeedback)
			// Reschedule and status updates; authorization inside handler
			appointmentRoutes.PUT("/:id", appointmentHandler.UpdateAppointment)
			appointmentRoutes.PUT("/:id/cancel", appointmentHandler.CancelAppointment)
		}

		// Doctor directory and admin management
		doctorRoutes := private.Group("/doctors")
		{
			doctorRoutes.GET("", doctorHandler.GetDoctors)
			doctorRoutes.GET("/available", doctorHandler.GetAvailableDoctors)
			doctorRoutes.GET("/specialization/:specialization", doctorHandler.GetDoctorsBySpecialization)

			adminDoctorRoutes := doctorRoutes.Group("")
			adminDoctorRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminDoctorRoutes.POST("", doctorHandler.CreateDoctor)
				adminDoctorRoutes.PUT("/:id", doctorHandler.UpdateDoctor)
				adminDoctorRoutes.DELETE("/:id", doctorHandler.DeleteDoctor)
			}
		}

		// Patient routes
		patientRoutes := private.Group("/patients")
		{
			patientRoutes.GET("/me", patientHandler.GetMyProfile)
			patientRoutes.PUT("/me", patientHandler.UpdateMyProfile)

			adminPatientRoutes := patientRoutes.Group("/admin")
			adminPatientRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminPatientRoutes.GET("", patientHandler.AdminListPatients)
				adminPatientRoutes.GET("/patients/:id", patientHandler.AdminGetPatient)
				adminPatientRoutes.PUT("/patients/:id", patientHandler.AdminUpdatePatient)
			}
		}

		// Feedback routes
		feedbackRoutes := private.Group("/feedback")
		{
			feedbackRoutes.POST("", feedbackHandler.CreateFeedback)
			feedbackRoutes.GET("/me", feedbackHandler.GetMyFeedback)
			feedbackRoutes.GET("/doctor/:id", feedbackHandler.GetDoctorFeedback)

			adminFeedbackRoutes := feedbackRoutes.Group("")
			adminFeedbackRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
			{
				adminFeedbackRoutes.PUT("/:id", feedbackHandler.UpdateFeedback)
				adminFeedbackRoutes.DELETE("/:id", feedbackHandler.DeleteFeedback)
			}
		}

		// Notification routes (best-effort side calls from clients)
		private.POST("/notifications", notificationHandler.CreateNotification)

		// Medical report routes
		reportRoutes := private.Group("/reports")
		{
			reportRoutes.POST("", middleware.RoleAuthMiddleware(models.RoleDoctor), reportHandler.CreateReport)
			reportRoutes.GET("/patient/:patientId", reportHandler.GetReportsForPatient)
			reportRoutes.GET("/:id", reportHandler.GetReportByID)
		}
	}

	// Simple health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "UP"})
	})
}
