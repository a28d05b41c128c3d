package scheduling

import (
	"time"

	"github.com/medbrief/telemed-api/internal/models"
)

const (
	hourMinuteLayout = "15:04"
	dateLayout       = "2006-01-02"
)

// Generate builds the slot grid for one calendar day.
//
// Starting at the window start it emits [cursor, cursor+duration) and
// advances by duration while the slot still fits before the window end;
// a trailing remainder shorter than the duration is dropped. The result
// is chronologically ordered and every slot is Available.
//
// The function is pure: it never touches storage. Persisting the slots,
// and re-checking the duplicate-date rule at the concurrency boundary,
// is the repository's job.
func Generate(
	date time.Time,
	wh WorkingHours,
	durationMin int,
	existing []models.Slot,
) ([]models.Slot, error) {

	start, errStart := time.Parse(hourMinuteLayout, wh.Start)
	end, errEnd := time.Parse(hourMinuteLayout, wh.End)

	if errStart != nil || errEnd != nil {
		return nil, ErrInvalidWindow
	}
	if !start.Before(end) || durationMin <= 0 {
		return nil, ErrInvalidWindow
	}

	day := date.Format(dateLayout)
	for _, s := range existing {
		if s.Date.Format(dateLayout) == day {
			return nil, ErrDuplicateDate
		}
	}

	dur := time.Duration(durationMin) * time.Minute

	var slots []models.Slot
	for cur := start; !cur.Add(dur).After(end); cur = cur.Add(dur) {
		slots = append(slots, models.Slot{
			Date:      date,
			StartTime: cur.Format(hourMinuteLayout),
			EndTime:   cur.Add(dur).Format(hourMinuteLayout),
			Status:    string(SlotAvailable),
		})
	}

	return slots, nil
}

// ScheduledTime combines a slot's date and start time in the given
// location. This is the appointment's scheduled_time.
func ScheduledTime(slot *models.Slot, loc *time.Location) (time.Time, error) {
	start, err := time.Parse(hourMinuteLayout, slot.StartTime)
	if err != nil {
		return time.Time{}, err
	}

	return time.Date(
		slot.Date.Year(), slot.Date.Month(), slot.Date.Day(),
		start.Hour(), start.Minute(), 0, 0,
		loc,
	), nil
}

// SlotDurationMin derives the slot length in minutes from its bounds.
func SlotDurationMin(slot *models.Slot) int {
	start, errStart := time.Parse(hourMinuteLayout, slot.StartTime)
	end, errEnd := time.Parse(hourMinuteLayout, slot.EndTime)
	if errStart != nil || errEnd != nil {
		return 0
	}
	return int(end.Sub(start) / time.Minute)
}
