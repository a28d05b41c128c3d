package booking

import (
	"context"

	"go.uber.org/zap"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/timezone"
)

// DeclineAppointment declines a pending appointment and releases its
// slot back to available, so the time becomes bookable again.
type DeclineAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
	cache AvailabilityInvalidator
	log   *zap.Logger
}

func NewDeclineAppointment(
	repo domain.Repository,
	audit audit.Recorder,
	cache AvailabilityInvalidator,
	log *zap.Logger,
) *DeclineAppointment {
	return &DeclineAppointment{
		repo:  repo,
		audit: audit,
		cache: cache,
		log:   log,
	}
}

func (uc *DeclineAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	now := timezone.NowIn(doctor.Timezone)
	if err := domain.Decline(ap, now); err != nil {
		return nil, err
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	if err := uc.repo.ReleaseSlot(ctx, ap.SlotID); err != nil {
		// Appointment is declined either way; log the stuck slot.
		uc.log.Error("slot release on decline failed",
			zap.Uint("slot_id", ap.SlotID),
			zap.Error(err),
		)
	} else {
		uc.cache.Invalidate(ctx, doctorID)
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "appointment_declined",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
