package scheduling

import (
	"time"

	"github.com/medbrief/telemed-api/internal/models"
)

// ===============================
// Appointment status
// ===============================

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

func InitialStatus() Status {
	return StatusPending
}

// ===============================
// Domain actions
// ===============================

// Approve moves a pending appointment to approved. Approving an
// already approved appointment is a no-op success; declined and
// completed are terminal.
func Approve(ap *models.Appointment) error {
	switch Status(ap.Status) {
	case StatusPending:
		ap.Status = string(StatusApproved)
		return nil
	case StatusApproved:
		return nil
	default:
		return ErrInvalidTransition
	}
}

// Decline moves a pending appointment to declined. The caller must
// release the underlying slot so it becomes bookable again.
func Decline(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status) != StatusPending {
		return ErrInvalidTransition
	}

	ap.Status = string(StatusDeclined)
	ap.DeclinedAt = &now
	return nil
}

// Complete finalizes an approved appointment once the consultation
// record (transcription, summary, prescriptions) is in hand.
func Complete(ap *models.Appointment, now time.Time) error {
	if Status(ap.Status) != StatusApproved {
		return ErrInvalidTransition
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}
