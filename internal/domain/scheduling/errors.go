package scheduling

import "github.com/medbrief/telemed-api/internal/httperr"

// ===============================
// Error taxonomy
// ===============================

var (
	ErrInvalidWindow      = httperr.ErrBusiness("invalid_window")
	ErrDuplicateDate      = httperr.ErrBusiness("duplicate_date")
	ErrSlotNotFound       = httperr.ErrBusiness("slot_not_found")
	ErrSlotAlreadyBooked  = httperr.ErrBusiness("slot_already_booked")
	ErrCannotRemoveBooked = httperr.ErrBusiness("cannot_remove_booked_slot")
	ErrAppointmentCreate  = httperr.ErrBusiness("appointment_create_failed")
	ErrInvalidTransition  = httperr.ErrBusiness("invalid_transition")
)
