package booking

import (
	"context"

	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
)

// AvailabilityCache is the read side of the Redis cache.
type AvailabilityCache interface {
	AvailabilityInvalidator
	Get(ctx context.Context, doctorID uint) ([]domain.SlotView, bool)
	Set(ctx context.Context, doctorID uint, views []domain.SlotView)
}

// GetAvailability lists a doctor's open slots for patients. Indexes in
// the result are positions in the doctor's full ordered slot list, the
// same addressing BookSlot expects.
type GetAvailability struct {
	repo  domain.Repository
	cache AvailabilityCache
}

func NewGetAvailability(
	repo domain.Repository,
	cache AvailabilityCache,
) *GetAvailability {
	return &GetAvailability{
		repo:  repo,
		cache: cache,
	}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	doctorID uint,
) ([]domain.SlotView, error) {

	if views, ok := uc.cache.Get(ctx, doctorID); ok {
		return views, nil
	}

	slots, err := uc.repo.ListSlots(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.SlotView, 0, len(slots))
	for i, s := range slots {
		if s.Status != string(domain.SlotAvailable) {
			continue
		}
		views = append(views, domain.SlotView{
			Index:     i,
			Date:      s.Date.Format("2006-01-02"),
			StartTime: s.StartTime,
			EndTime:   s.EndTime,
			Status:    s.Status,
		})
	}

	uc.cache.Set(ctx, doctorID, views)

	return views, nil
}
