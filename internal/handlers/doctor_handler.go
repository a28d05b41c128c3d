package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/imageutil"
	"github.com/medbrief/telemed-api/internal/middleware"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/storage"
	"github.com/medbrief/telemed-api/internal/timezone"
)

// ======================================================
// HANDLER
// ======================================================

type DoctorHandler struct {
	db    *gorm.DB
	store *storage.S3Store
}

func NewDoctorHandler(db *gorm.DB, store *storage.S3Store) *DoctorHandler {
	return &DoctorHandler{db: db, store: store}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateProfileRequest struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"date_of_birth"`

	Specialization  string `json:"specialization"`
	Degrees         string `json:"degrees"`
	ExperienceYears *int   `json:"experience_years"`
	ClinicName      string `json:"clinic_name"`
	ClinicAddress   string `json:"clinic_address"`
	Timezone        string `json:"timezone"`

	WorkStart       string `json:"work_start"`
	WorkEnd         string `json:"work_end"`
	SlotDurationMin *int   `json:"slot_duration_min"`
}

// ======================================================
// PROFILE
// ======================================================

func (h *DoctorHandler) GetMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	c.JSON(http.StatusOK, user)
}

func (h *DoctorHandler) UpdateProfile(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid profile data.")
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Gender != "" {
		user.Gender = req.Gender
	}
	if req.DateOfBirth != "" {
		user.DateOfBirth = req.DateOfBirth
	}
	if req.Specialization != "" {
		user.Specialization = req.Specialization
	}
	if req.Degrees != "" {
		user.Degrees = req.Degrees
	}
	if req.ExperienceYears != nil {
		user.ExperienceYears = *req.ExperienceYears
	}
	if req.ClinicName != "" {
		user.ClinicName = req.ClinicName
	}
	if req.ClinicAddress != "" {
		user.ClinicAddress = req.ClinicAddress
	}

	if req.Timezone != "" {
		if !timezone.IsValid(req.Timezone) {
			httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
			return
		}
		user.Timezone = req.Timezone
	}

	// Schedule configuration only affects future generation; already
	// generated slots keep their bounds.
	if req.WorkStart != "" || req.WorkEnd != "" || req.SlotDurationMin != nil {
		workStart := user.WorkStart
		workEnd := user.WorkEnd
		if req.WorkStart != "" {
			workStart = req.WorkStart
		}
		if req.WorkEnd != "" {
			workEnd = req.WorkEnd
		}

		start, errStart := time.Parse("15:04", workStart)
		end, errEnd := time.Parse("15:04", workEnd)
		if errStart != nil || errEnd != nil || !start.Before(end) {
			httperr.BadRequest(c, "invalid_window", "Working hours window is invalid.")
			return
		}

		if req.SlotDurationMin != nil {
			if *req.SlotDurationMin <= 0 {
				httperr.BadRequest(c, "invalid_window", "Slot duration must be positive.")
				return
			}
			user.SlotDurationMin = *req.SlotDurationMin
		}

		user.WorkStart = workStart
		user.WorkEnd = workEnd
	}

	user.ProfileCompleted = true

	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not save profile.")
		return
	}

	c.JSON(http.StatusOK, user)
}

// ======================================================
// PROFILE PICTURE
// ======================================================

func (h *DoctorHandler) UploadProfilePicture(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	file, _, err := c.Request.FormFile("picture")
	if err != nil {
		httperr.BadRequest(c, "missing_picture", "No picture in request.")
		return
	}
	defer file.Close()

	normalized, err := imageutil.NormalizeProfilePicture(file)
	if err != nil {
		httperr.BadRequest(c, "invalid_picture", "Picture could not be decoded.")
		return
	}

	key := fmt.Sprintf("profile_pictures/%d.webp", userID)
	url, err := h.store.UploadImage(c.Request.Context(), key, normalized, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_store_picture", "Could not store picture.")
		return
	}

	user.ProfilePictureURL = url
	if err := h.db.Save(&user).Error; err != nil {
		httperr.Internal(c, "failed_to_update_profile", "Could not save profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile_picture_url": url})
}
