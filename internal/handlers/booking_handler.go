package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medbrief/telemed-api/internal/dto"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/httpresp"
	"github.com/medbrief/telemed-api/internal/middleware"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db     *gorm.DB
	bookUC *booking.BookSlot
}

func NewBookingHandler(db *gorm.DB, bookUC *booking.BookSlot) *BookingHandler {
	return &BookingHandler{db: db, bookUC: bookUC}
}

// ======================================================
// REQUESTS
// ======================================================

type BookSlotRequest struct {
	DoctorID  uint `json:"doctor_id" binding:"required"`
	SlotIndex *int `json:"slot_index" binding:"required"`
}

// ======================================================
// BOOK
// ======================================================

func (h *BookingHandler) Book(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var req BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Doctor and slot are required.")
		return
	}

	ap, err := h.bookUC.Execute(
		c.Request.Context(),
		patientID,
		req.DoctorID,
		*req.SlotIndex,
	)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "slot_already_booked"):
			// The patient must pick another time; the booking did
			// not silently succeed.
			httperr.Conflict(c, "slot_already_booked", "This slot was just taken, please pick another.")
		case httperr.IsBusiness(err, "slot_not_found"):
			httperr.NotFound(c, "slot_not_found", "Slot does not exist.")
		case httperr.IsBusiness(err, "appointment_create_failed"):
			httperr.Internal(c, "appointment_create_failed", "Could not create the appointment, the slot was released.")
		default:
			httperr.Internal(c, "failed_to_book", "Could not book the appointment.")
		}
		return
	}

	httpresp.Created(c, ap)
}

// ======================================================
// MY APPOINTMENTS (PATIENT)
// ======================================================

func (h *BookingHandler) ListMine(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)

	var aps []models.Appointment
	if err := h.db.
		Preload("Doctor").
		Preload("Patient").
		Preload("Prescriptions").
		Where("patient_id = ?", patientID).
		Order("scheduled_time ASC").
		Find(&aps).Error; err != nil {
		httperr.Internal(c, "failed_to_list_appointments", "Could not list appointments.")
		return
	}

	out := make([]dto.AppointmentListDTO, 0, len(aps))
	for _, ap := range aps {
		out = append(out, dto.AppointmentListDTO{
			ID:            ap.ID,
			ScheduledTime: ap.ScheduledTime,
			DurationMin:   ap.DurationMin,
			Status:        ap.Status,
			DoctorName:    ap.Doctor.Name,
			PatientName:   ap.Patient.Name,
			HasSummary:    ap.Summary != "",
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// APPOINTMENT DETAIL (PATIENT)
// ======================================================

func (h *BookingHandler) GetMine(c *gin.Context) {
	patientID := c.MustGet(middleware.ContextUserID).(uint)
	id := c.Param("id")

	var ap models.Appointment
	if err := h.db.
		Preload("Doctor").
		Preload("Prescriptions").
		Where("id = ? AND patient_id = ?", id, patientID).
		First(&ap).Error; err != nil {
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		return
	}

	httpresp.OK(c, ap)
}
