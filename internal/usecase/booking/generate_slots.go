package booking

import (
	"context"
	"time"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/httperr"
	"github.com/medbrief/telemed-api/internal/models"
	"github.com/medbrief/telemed-api/internal/timezone"
)

// GenerateSlots fills one date with the doctor's slot grid, derived
// from their configured working hours and slot duration.
type GenerateSlots struct {
	repo  domain.Repository
	audit audit.Recorder
	cache AvailabilityInvalidator
}

func NewGenerateSlots(
	repo domain.Repository,
	audit audit.Recorder,
	cache AvailabilityInvalidator,
) *GenerateSlots {
	return &GenerateSlots{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

func (uc *GenerateSlots) Execute(
	ctx context.Context,
	doctorID uint,
	dateStr string,
) ([]models.Slot, error) {

	doctor, err := uc.repo.GetDoctorByID(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	date, err := time.ParseInLocation(
		"2006-01-02",
		dateStr,
		timezone.Location(doctor.Timezone),
	)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	existing, err := uc.repo.ListSlots(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	wh := domain.WorkingHours{Start: doctor.WorkStart, End: doctor.WorkEnd}

	slots, err := domain.Generate(date, wh, doctor.SlotDurationMin, existing)
	if err != nil {
		return nil, err
	}

	// The repository re-checks the duplicate-date rule under a lock;
	// the generator's check above only catches the cheap case early.
	if err := uc.repo.AppendSlots(ctx, doctorID, date, slots); err != nil {
		return nil, err
	}

	uc.cache.Invalidate(ctx, doctorID)

	uc.audit.Dispatch(audit.Event{
		UserID: &doctorID,
		Action: "slots_generated",
		Entity: "slot",
		Metadata: map[string]any{
			"date":  dateStr,
			"count": len(slots),
		},
	})

	return slots, nil
}
