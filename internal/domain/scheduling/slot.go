package scheduling

// ===============================
// Slot status
// ===============================

type SlotStatus string

const (
	SlotAvailable SlotStatus = "available"
	SlotBooked    SlotStatus = "booked"
)

// WorkingHours is a doctor's daily consultation window.
// Both bounds are times of day in "15:04" format.
type WorkingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// SlotView is a slot as exposed to patients picking a time. Index is
// the slot's position in the doctor's chronologically ordered list and
// is the address booking requests use.
type SlotView struct {
	Index     int    `json:"index"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Status    string `json:"status"`
}
