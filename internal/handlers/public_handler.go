package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/httpresp"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/usecase/booking"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type PublicHandler struct {
	db             *gorm.DB
	availabilityUC *booking.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	availabilityUC *booking.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		availabilityUC: availabilityUC,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type DoctorCardDTO struct {
	ID                uint   `json:"id"`
	Name              string `json:"name"`
	Specialization    string `json:"specialization"`
	Degrees           string `json:"degrees"`
	ClinicName        string `json:"clinic_name"`
	ClinicAddress     string `json:"clinic_address"`
	ProfilePictureURL string `json:"profile_picture_url"`
}

////////////////////////////////////////////////////////
// DOCTOR DIRECTORY
////////////////////////////////////////////////////////

func (h *PublicHandler) ListDoctors(c *gin.Context) {
	var doctors []models.User
	if err := h.db.
		Where("role = ? AND profile_completed = true", models.RoleDoctor).
		Order("id ASC").
		Find(&doctors).Error; err != nil {
		httperr.Internal(c, "failed_to_list_doctors", "Could not list doctors.")
		return
	}

	cards := make([]DoctorCardDTO, 0, len(doctors))
	for _, d := range doctors {
		cards = append(cards, DoctorCardDTO{
			ID:                d.ID,
			Name:              d.Name,
			Specialization:    d.Specialization,
			Degrees:           d.Degrees,
			ClinicName:        d.ClinicName,
			ClinicAddress:     d.ClinicAddress,
			ProfilePictureURL: d.ProfilePictureURL,
		})
	}

	httpresp.List(c, cards)
}

////////////////////////////////////////////////////////
// AVAILABILITY
////////////////////////////////////////////////////////

func (h *PublicHandler) Availability(c *gin.Context) {
	doctorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_doctor_id", "Doctor id is invalid.")
		return
	}

	var doctor models.User
	if err := h.db.
		Where("id = ? AND role = ?", doctorID, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		httperr.NotFound(c, "doctor_not_found", "Doctor not found.")
		return
	}

	views, err := h.availabilityUC.Execute(c.Request.Context(), uint(doctorID))
	if err != nil {
		httperr.Internal(c, "failed_to_list_availability", "Could not list availability.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"doctor_id": doctor.ID,
		"slots":     views,
	})
}
