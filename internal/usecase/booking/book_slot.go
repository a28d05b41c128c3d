package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/timezone"
)

// ======================================================
// USE CASE
// ======================================================

// BookSlot is the two-phase booking: reserve the slot, then create the
// pending appointment. If the second phase fails the reservation is
// rolled back, so a slot is booked iff exactly one live appointment
// references it.
type BookSlot struct {
	repo  domain.Repository
	audit audit.Recorder
	cache AvailabilityInvalidator
	log   *zap.Logger
}

func NewBookSlot(
	repo domain.Repository,
	audit audit.Recorder,
	cache AvailabilityInvalidator,
	log *zap.Logger,
) *BookSlot {
	return &BookSlot{
		repo:  repo,
		audit: audit,
		cache: cache,
		log:   log,
	}
}

func (uc *BookSlot) Execute(
	ctx context.Context,
	patientID uint,
	doctorID uint,
	slotIndex int,
) (*models.Appointment, error) {

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	// Phase 1: atomic reservation. Errors propagate unchanged, no
	// appointment exists yet.
	slot, err := uc.repo.ReserveSlot(ctx, doctorID, slotIndex)
	if err != nil {
		return nil, err
	}

	scheduled, err := domain.ScheduledTime(slot, timezone.Location(doctor.Timezone))
	if err != nil {
		// Slot bounds are unparsable, undo the reservation.
		uc.release(ctx, slot.ID, doctorID)
		return nil, domain.ErrAppointmentCreate
	}

	ap := &models.Appointment{
		DoctorID:      doctorID,
		PatientID:     patientID,
		SlotID:        slot.ID,
		ScheduledTime: scheduled,
		DurationMin:   domain.SlotDurationMin(slot),
		Status:        string(domain.InitialStatus()),
	}

	// Phase 2: persist the appointment. On failure the reservation
	// is compensated so the slot does not stay stranded in booked.
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		uc.log.Error("appointment create failed after reserve",
			zap.Uint("doctor_id", doctorID),
			zap.Uint("slot_id", slot.ID),
			zap.Error(err),
		)
		uc.release(ctx, slot.ID, doctorID)
		return nil, domain.ErrAppointmentCreate
	}

	uc.cache.Invalidate(ctx, doctorID)

	uc.audit.Dispatch(audit.Event{
		UserID:   &patientID,
		Action:   "appointment_booked",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}

func (uc *BookSlot) release(ctx context.Context, slotID, doctorID uint) {
	if err := uc.repo.ReleaseSlot(ctx, slotID); err != nil {
		// The slot is stranded in booked until an operator fixes it.
		uc.log.Error("compensating release failed",
			zap.Uint("slot_id", slotID),
			zap.Error(err),
		)
		return
	}
	uc.cache.Invalidate(ctx, doctorID)
}
