package scheduling

import (
	"context"
	"time"

	"github.com/medbrief/telemed-api/internal/models"
)

// Repository is the persistence boundary for the booking core.
//
// Slots are addressed by their position in the doctor's chronologically
// ordered list (date asc, start asc, id asc). ReserveSlot must be
// atomic: with two concurrent callers on the same (doctorID, slotIndex)
// exactly one wins, the other gets ErrSlotAlreadyBooked. ReleaseSlot
// addresses the concrete row ReserveSlot returned, so it stays valid
// even if removals shift indexes in between.
type Repository interface {
	// -------- Users --------
	GetDoctorByID(
		ctx context.Context,
		id uint,
	) (*models.User, error)

	// -------- Slots --------
	ListSlots(
		ctx context.Context,
		doctorID uint,
	) ([]models.Slot, error)

	AppendSlots(
		ctx context.Context,
		doctorID uint,
		date time.Time,
		slots []models.Slot,
	) error

	ReserveSlot(
		ctx context.Context,
		doctorID uint,
		slotIndex int,
	) (*models.Slot, error)

	ReleaseSlot(
		ctx context.Context,
		slotID uint,
	) error

	RemoveSlot(
		ctx context.Context,
		doctorID uint,
		slotIndex int,
	) error

	// -------- Appointments --------
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointmentForDoctor(
		ctx context.Context,
		appointmentID uint,
		doctorID uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	ListAppointmentsForDoctor(
		ctx context.Context,
		doctorID uint,
		start time.Time,
		end time.Time,
	) ([]models.Appointment, error)

	ListAppointmentsForPatient(
		ctx context.Context,
		patientID uint,
	) ([]models.Appointment, error)
}
