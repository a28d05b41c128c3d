package booking

import (
	"context"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/models"
)

type ApproveAppointment struct {
	repo  domain.Repository
	audit audit.Recorder
}

func NewApproveAppointment(
	repo domain.Repository,
	audit audit.Recorder,
) *ApproveAppointment {
	return &ApproveAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *ApproveAppointment) Execute(
	ctx context.Context,
	doctorID uint,
	appointmentID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointmentForDoctor(ctx, appointmentID, doctorID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	alreadyApproved := ap.Status == string(domain.StatusApproved)

	if err := domain.Approve(ap); err != nil {
		return nil, err
	}

	// Re-approving is a no-op success, nothing to persist or audit.
	if alreadyApproved {
		return ap, nil
	}

	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &doctorID,
		Action:   "appointment_approved",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
