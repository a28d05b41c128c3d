package scheduling

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medbrief/telemed-api/internal/models"
)

func date(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestGenerate_FullHourSplitsIntoTwoHalves(t *testing.T) {
	slots, err := Generate(
		date("2025-03-10"),
		WorkingHours{Start: "09:00", End: "10:00"},
		30,
		nil,
	)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:30", slots[0].EndTime)
	assert.Equal(t, "09:30", slots[1].StartTime)
	assert.Equal(t, "10:00", slots[1].EndTime)

	for _, s := range slots {
		assert.Equal(t, string(SlotAvailable), s.Status)
	}
}

func TestGenerate_TrailingRemainderIsDropped(t *testing.T) {
	slots, err := Generate(
		date("2025-03-10"),
		WorkingHours{Start: "09:00", End: "10:00"},
		40,
		nil,
	)
	require.NoError(t, err)
	require.Len(t, slots, 1)

	assert.Equal(t, "09:00", slots[0].StartTime)
	assert.Equal(t, "09:40", slots[0].EndTime)
}

func TestGenerate_CountAndOrdering(t *testing.T) {
	cases := []struct {
		name     string
		start    string
		end      string
		duration int
		want     int
	}{
		{"full day of 30min", "09:00", "17:00", 30, 16},
		{"exact single fit", "09:00", "09:45", 45, 1},
		{"duration longer than window", "09:00", "09:30", 45, 0},
		{"uneven remainder", "08:00", "12:10", 50, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			slots, err := Generate(
				date("2025-03-10"),
				WorkingHours{Start: tc.start, End: tc.end},
				tc.duration,
				nil,
			)
			require.NoError(t, err)
			assert.Len(t, slots, tc.want)

			// chronological, non-overlapping, contained in the window
			for i, s := range slots {
				assert.True(t, s.StartTime < s.EndTime)
				assert.GreaterOrEqual(t, s.StartTime, tc.start)
				assert.LessOrEqual(t, s.EndTime, tc.end)
				if i > 0 {
					assert.Equal(t, slots[i-1].EndTime, s.StartTime)
				}
			}
		})
	}
}

func TestGenerate_InvalidWindow(t *testing.T) {
	cases := []struct {
		name     string
		wh       WorkingHours
		duration int
	}{
		{"start after end", WorkingHours{Start: "17:00", End: "09:00"}, 30},
		{"start equals end", WorkingHours{Start: "09:00", End: "09:00"}, 30},
		{"zero duration", WorkingHours{Start: "09:00", End: "17:00"}, 0},
		{"negative duration", WorkingHours{Start: "09:00", End: "17:00"}, -15},
		{"unparsable start", WorkingHours{Start: "9am", End: "17:00"}, 30},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Generate(date("2025-03-10"), tc.wh, tc.duration, nil)
			assert.True(t, errors.Is(err, ErrInvalidWindow), "got %v", err)
		})
	}
}

func TestGenerate_DuplicateDateRejected(t *testing.T) {
	existing := []models.Slot{
		{Date: date("2025-03-10"), StartTime: "09:00", EndTime: "09:30"},
	}

	_, err := Generate(
		date("2025-03-10"),
		WorkingHours{Start: "09:00", End: "17:00"},
		30,
		existing,
	)
	assert.True(t, errors.Is(err, ErrDuplicateDate))

	// a different date is fine
	slots, err := Generate(
		date("2025-03-11"),
		WorkingHours{Start: "09:00", End: "17:00"},
		30,
		existing,
	)
	require.NoError(t, err)
	assert.NotEmpty(t, slots)
}

func TestScheduledTime_CombinesDateAndStart(t *testing.T) {
	slot := &models.Slot{
		Date:      date("2025-03-10"),
		StartTime: "14:30",
		EndTime:   "15:00",
	}

	got, err := ScheduledTime(slot, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC), got)
}

func TestSlotDurationMin(t *testing.T) {
	slot := &models.Slot{StartTime: "09:00", EndTime: "09:40"}
	assert.Equal(t, 40, SlotDurationMin(slot))
}
