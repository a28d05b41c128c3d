package booking

import (
	"context"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
)

type RemoveSlot struct {
	repo  domain.Repository
	audit audit.Recorder
	cache AvailabilityInvalidator
}

func NewRemoveSlot(
	repo domain.Repository,
	audit audit.Recorder,
	cache AvailabilityInvalidator,
) *RemoveSlot {
	return &RemoveSlot{
		repo:  repo,
		audit: audit,
		cache: cache,
	}
}

func (uc *RemoveSlot) Execute(
	ctx context.Context,
	doctorID uint,
	slotIndex int,
) error {

	if err := uc.repo.RemoveSlot(ctx, doctorID, slotIndex); err != nil {
		return err
	}

	uc.cache.Invalidate(ctx, doctorID)

	uc.audit.Dispatch(audit.Event{
		UserID: &doctorID,
		Action: "slot_removed",
		Entity: "slot",
		Metadata: map[string]any{
			"slot_index": slotIndex,
		},
	})

	return nil
}
