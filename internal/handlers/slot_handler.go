package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/httpresp"
	"github.com/medbrief/telemed-api/internal/middleware"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type SlotHandler struct {
	db         *gorm.DB
	generateUC *booking.GenerateSlots
	removeUC   *booking.RemoveSlot
}

func NewSlotHandler(
	db *gorm.DB,
	generateUC *booking.GenerateSlots,
	removeUC *booking.RemoveSlot,
) *SlotHandler {
	return &SlotHandler{
		db:         db,
		generateUC: generateUC,
		removeUC:   removeUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type GenerateSlotsRequest struct {
	Date string `json:"date" binding:"required"` // YYYY-MM-DD
}

// ======================================================
// GENERATE
// ======================================================

func (h *SlotHandler) Generate(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var req GenerateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Date is required.")
		return
	}

	slots, err := h.generateUC.Execute(c.Request.Context(), doctorID, req.Date)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "duplicate_date"):
			httperr.Conflict(c, "duplicate_date", "Slots for this date already exist.")
		case httperr.IsBusiness(err, "invalid_window"):
			httperr.BadRequest(c, "invalid_window", "Working hours or slot duration are invalid.")
		case httperr.IsBusiness(err, "invalid_date"):
			httperr.BadRequest(c, "invalid_date", "Date is invalid.")
		default:
			httperr.Internal(c, "failed_to_generate_slots", "Could not generate slots.")
		}
		return
	}

	httpresp.Created(c, gin.H{"slots": slots, "count": len(slots)})
}

// ======================================================
// LIST
// ======================================================

func (h *SlotHandler) List(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	var slots []models.Slot
	if err := h.db.
		Where("doctor_id = ?", doctorID).
		Order("date ASC, start_time ASC, id ASC").
		Find(&slots).Error; err != nil {
		httperr.Internal(c, "failed_to_list_slots", "Could not list slots.")
		return
	}

	views := make([]domain.SlotView, 0, len(slots))
	for i, s := range slots {
		views = append(views, domain.SlotView{
			Index:     i,
			Date:      s.Date.Format("2006-01-02"),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    s.Status,
		})
	}

	httpresp.List(c, views)
}

// ======================================================
// REMOVE
// ======================================================

func (h *SlotHandler) Remove(c *gin.Context) {
	doctorID := c.MustGet(middleware.ContextUserID).(uint)

	slotIndex, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		httperr.BadRequest(c, "invalid_slot_index", "Slot index must be a number.")
		return
	}

	if err := h.removeUC.Execute(c.Request.Context(), doctorID, slotIndex); err != nil {
		switch {
		case httperr.IsBusiness(err, "slot_not_found"):
			httperr.NotFound(c, "slot_not_found", "Slot does not exist.")
		case httperr.IsBusiness(err, "cannot_remove_booked_slot"):
			httperr.Conflict(c, "cannot_remove_booked_slot", "Booked slots cannot be removed.")
		default:
			httperr.Internal(c, "failed_to_remove_slot", "Could not remove slot.")
		}
		return
	}

	c.Status(http.StatusNoContent)
}
