package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/medbrief/telemed-api/internal/audit"
	"github.com/medbrief/telemed-api/internal/cache"
	"github.com/medbrief/telemed-api/internal/config"
	"github.com/medbrief/telemed-api/internal/handlers"
	infraRepo "github.com/medbrief/telemed-api/internal/infra/repository"
	"github.com/medbrief/telemed-api/internal/middleware"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/storage"
	"github.com/medbrief/telemed-api/internal/summarize"
	"github.com/medbrief/telemed-api/internal/transcribe"
	ucBooking "github.com/medbrief/telemed-api/internal/usecase/booking"
	ucConsultation "github.com/medbrief/telemed-api/internal/usecase/consultation"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
	cfg *config.Config,
	log *zap.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	schedulingRepo := infraRepo.NewSchedulingGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	availabilityCache := cache.NewAvailabilityCache(rdb, log)

	objectStore := storage.NewS3Store(cfg)
	transcriber := transcribe.NewClient(cfg, log)
	summarizer := summarize.NewClient(cfg)

	// ======================================================
	// USE CASES
	// ======================================================
	bookSlotUC := ucBooking.NewBookSlot(
		schedulingRepo,
		auditDispatcher,
		availabilityCache,
		log,
	)

	approveUC := ucBooking.NewApproveAppointment(
		schedulingRepo,
		auditDispatcher,
	)

	declineUC := ucBooking.NewDeclineAppointment(
		schedulingRepo,
		auditDispatcher,
		availabilityCache,
		log,
	)

	generateSlotsUC := ucBooking.NewGenerateSlots(
		schedulingRepo,
		auditDispatcher,
		availabilityCache,
	)

	removeSlotUC := ucBooking.NewRemoveSlot(
		schedulingRepo,
		auditDispatcher,
		availabilityCache,
	)

	availabilityUC := ucBooking.NewGetAvailability(
		schedulingRepo,
		availabilityCache,
	)

	attachConsultationUC := ucConsultation.NewAttachConsultation(
		schedulingRepo,
		objectStore,
		transcriber,
		summarizer,
		auditDispatcher,
		log,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, cfg)
	doctorHandler := handlers.NewDoctorHandler(db, objectStore)
	slotHandler := handlers.NewSlotHandler(db, generateSlotsUC, removeSlotUC)
	publicHandler := handlers.NewPublicHandler(db, availabilityUC)
	bookingHandler := handlers.NewBookingHandler(db, bookSlotUC)
	appointmentHandler := handlers.NewAppointmentHandler(
		db,
		approveUC,
		declineUC,
		attachConsultationUC,
	)
	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		publicAPI := api.Group("/public")
		{
			publicAPI.GET("/doctors", publicHandler.ListDoctors)
			publicAPI.GET("/doctors/:id/availability", publicHandler.Availability)
		}

		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/register", authHandler.Register)
		api.POST("/auth/login", authHandler.Login)

		// ------------------------------
		// PRIVATE
		// ------------------------------
		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			secured.GET("/me", doctorHandler.GetMe)
			secured.PATCH("/me/profile", doctorHandler.UpdateProfile)
			secured.POST("/me/profile/picture", doctorHandler.UploadProfilePicture)

			secured.GET("/me/audit-logs", auditLogsHandler.List)

			// ------------------------------
			// DOCTOR
			// ------------------------------
			doctor := secured.Group("/")
			doctor.Use(middleware.RequireRole(models.RoleDoctor))
			{
				doctor.POST("/me/slots/generate", slotHandler.Generate)
				doctor.GET("/me/slots", slotHandler.List)
				doctor.DELETE("/me/slots/:index", slotHandler.Remove)

				doctor.GET("/me/appointments", appointmentHandler.ListByDate)
				doctor.PATCH("/me/appointments/:id/approve", appointmentHandler.Approve)
				doctor.PATCH("/me/appointments/:id/decline", appointmentHandler.Decline)
				doctor.POST("/me/appointments/:id/consultation", appointmentHandler.AttachConsultation)
			}

			// ------------------------------
			// PATIENT
			// ------------------------------
			patient := secured.Group("/")
			patient.Use(middleware.RequireRole(models.RolePatient))
			{
				patient.POST("/appointments", bookingHandler.Book)
				patient.GET("/appointments", bookingHandler.ListMine)
				patient.GET("/appointments/:id", bookingHandler.GetMine)
			}
		}
	}
}
