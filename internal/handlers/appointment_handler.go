package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medbrief/telemed-api/internal/dto"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/httpresp"
	"github.com/medbrief/telemed-api/internal/middleware"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/timezone"
	"github.com/medbrief/telemed-api/internal/usecase/booking"
	"github.com/medbrief/telemed-api/internal/usecase/consultation"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	db        *gorm.DB
	approveUC *booking.ApproveAppointment
	declineUC *booking.DeclineAppointment
	attachUC  *consultation.AttachConsultation
}

func NewAppointmentHandler(
	db *gorm.DB,
	approveUC *booking.ApproveAppointment,
	declineUC *booking.DeclineAppointment,
	attachUC *consultation.AttachConsultation,
) *AppointmentHandler {
	return &AppointmentHandler{
		db:        db,
		approveUC: approveUC,
		declineUC: declineUC,
		attachUC:  attachUC,
	}
}

func parseAppointmentID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_appointment_id", "Appointment id is invalid.")
		return 0, false
	}
	return uint(id), true
}

// ======================================================
// LIST (DOCTOR, BY DATE)
// ======================================================

func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var doctor models.User
	if err := h.db.First(&doctor, doctorID).Error; err != nil {
		httperr.Internal(c, "doctor_not_found", "Doctor not found.")
		return
	}

	dateStr := c.Query("date")
	if dateStr == "" {
		httperr.BadRequest(c, "missing_date", "Date is required.")
		return
	}

	date, err := parseDateForDoctor(&doctor, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Date is invalid.")
		return
	}

	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	end := start.Add(24 * time.Hour)

	var aps []models.Appointment
	if err := h.db.
		Preload("Patient").
		Preload("Prescriptions").
		Where(
			"doctor_id = ? AND scheduled_time >= ? AND scheduled_time < ?",
			doctorID, start, end,
		).
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
			DoctorName:    doctor.Name,
			PatientName:   ap.Patient.Name,
			HasSummary:    ap.Summary != "",
		})
	}

	httpresp.List(c, out)
}

// ======================================================
// APPROVE / DECLINE
// ======================================================

func (h *AppointmentHandler) Approve(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	ap, err := h.approveUC.Execute(c.Request.Context(), doctorID, id)
	if err != nil {
		writeTransitionError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func (h *AppointmentHandler) Decline(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	ap, err := h.declineUC.Execute(c.Request.Context(), doctorID, id)
	if err != nil {
		writeTransitionError(c, err)
		return
	}

	httpresp.OK(c, ap)
}

func writeTransitionError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, "appointment_not_found"):
		httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
	case httperr.IsBusiness(err, "invalid_transition"):
		httperr.Conflict(c, "invalid_transition", "Appointment is not in a state that allows this.")
	default:
		httperr.Internal(c, "failed_to_update_appointment", "Could not update appointment.")
	}
}

// ======================================================
// CONSULTATION AUDIO
// ======================================================

func (h *AppointmentHandler) AttachConsultation(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	id, ok := parseAppointmentID(c)
	if !ok {
		return
	}

	file, header, err := c.Request.FormFile("audio")
	if err != nil {
		httperr.BadRequest(c, "missing_audio", "No audio file in request.")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "audio/webm"
	}

	ap, err := h.attachUC.Execute(c.Request.Context(), doctorID, id, file, contentType)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "appointment_not_found"):
			httperr.NotFound(c, "appointment_not_found", "Appointment not found.")
		case httperr.IsBusiness(err, "invalid_transition"):
			httperr.Conflict(c, "invalid_transition", "Only approved appointments accept a consultation.")
		default:
			httperr.Internal(c, "consultation_failed", "Could not process the consultation audio.")
		}
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// DATE HELPERS
// ======================================================

func parseDateForDoctor(doctor *models.User, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(doctor.Timezone),
	)
}
