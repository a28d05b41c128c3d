package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/models"
)

type SchedulingGormRepository struct {
	db *gorm.DB
}

func NewSchedulingGormRepository(db *gorm.DB) *SchedulingGormRepository {
	return &SchedulingGormRepository{db: db}
}

// slotOrder is the canonical ordering behind slot indexes. It must be
// total (id breaks start-time ties) or index addressing is unstable.
const slotOrder = "date ASC, start_time ASC, id ASC"

// --------------------------------------------------
// Users
// --------------------------------------------------

func (r *SchedulingGormRepository) GetDoctorByID(
	ctx context.Context,
	id uint,
) (*models.User, error) {

	var doctor models.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND role = ?", id, models.RoleDoctor).
		First(&doctor).Error; err != nil {
		return nil, err
	}
	return &doctor, nil
}

// --------------------------------------------------
// Slots
// --------------------------------------------------

func (r *SchedulingGormRepository) ListSlots(
	ctx context.Context,
	doctorID uint,
) ([]models.Slot, error) {

	var slots []models.Slot
	if err := r.db.WithContext(ctx).
		Where("doctor_id = ?", doctorID).
		Order(slotOrder).
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

// AppendSlots re-checks the one-generation-per-date rule inside a
// transaction that locks the doctor row, so two concurrent generate
// calls for the same date cannot both pass the check.
func (r *SchedulingGormRepository) AppendSlots(
	ctx context.Context,
	doctorID uint,
	date time.Time,
	slots []models.Slot,
) error {

	if len(slots) == 0 {
		return nil
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var doctor models.User
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND role = ?", doctorID, models.RoleDoctor).
			First(&doctor).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Slot{}).
			Where("doctor_id = ? AND date = ?", doctorID, date.Format("2006-01-02")).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ErrDuplicateDate
		}

		for i := range slots {
			slots[i].DoctorID = doctorID
		}

		return tx.Create(&slots).Error
	})
}

// ReserveSlot flips exactly one slot from available to booked.
//
// The transition is a conditional UPDATE keyed on the slot's current
// status; RowsAffected tells us whether this caller won the race.
// Reading the whole list and writing it back would lose concurrent
// updates, so that shape is banned here.
func (r *SchedulingGormRepository) ReserveSlot(
	ctx context.Context,
	doctorID uint,
	slotIndex int,
) (*models.Slot, error) {

	slots, err := r.ListSlots(ctx, doctorID)
	if err != nil {
		return nil, err
	}

	if slotIndex < 0 || slotIndex >= len(slots) {
		return nil, domain.ErrSlotNotFound
	}

	target := slots[slotIndex]

	res := r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ? AND status = ?", target.ID, string(domain.SlotAvailable)).
		Update("status", string(domain.SlotBooked))

	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Either another booking won, or the doctor removed the
		// slot between our read and the update.
		var check models.Slot
		err := r.db.WithContext(ctx).First(&check, target.ID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, domain.ErrSlotAlreadyBooked
	}

	target.Status = string(domain.SlotBooked)
	return &target, nil
}

// ReleaseSlot reverts booked back to available. It is the compensation
// for a booking whose second phase failed, and the slot recycling on
// decline. Idempotent: releasing an available slot is a no-op.
func (r *SchedulingGormRepository) ReleaseSlot(
	ctx context.Context,
	slotID uint,
) error {

	return r.db.WithContext(ctx).
		Model(&models.Slot{}).
		Where("id = ? AND status = ?", slotID, string(domain.SlotBooked)).
		Update("status", string(domain.SlotAvailable)).Error
}

func (r *SchedulingGormRepository) RemoveSlot(
	ctx context.Context,
	doctorID uint,
	slotIndex int,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		var slots []models.Slot
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("doctor_id = ?", doctorID).
			Order(slotOrder).
			Find(&slots).Error; err != nil {
			return err
		}

		if slotIndex < 0 || slotIndex >= len(slots) {
			return domain.ErrSlotNotFound
		}

		target := slots[slotIndex]
		if target.Status == string(domain.SlotBooked) {
			return domain.ErrCannotRemoveBooked
		}

		return tx.Delete(&models.Slot{}, target.ID).Error
	})
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

func (r *SchedulingGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Create(ap).Error
}

func (r *SchedulingGormRepository) GetAppointmentForDoctor(
	ctx context.Context,
	appointmentID uint,
	doctorID uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Prescriptions").
		Where("id = ? AND doctor_id = ?", appointmentID, doctorID).
		First(&ap).Error; err != nil {
		return nil, err
	}

	return &ap, nil
}

func (r *SchedulingGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *SchedulingGormRepository) ListAppointmentsForDoctor(
	ctx context.Context,
	doctorID uint,
	start time.Time,
	end time.Time,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Prescriptions").
		Where(
			"doctor_id = ? AND scheduled_time >= ? AND scheduled_time < ?",
			doctorID, start, end,
		).
		Order("scheduled_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

func (r *SchedulingGormRepository) ListAppointmentsForPatient(
	ctx context.Context,
	patientID uint,
) ([]models.Appointment, error) {

	var aps []models.Appointment
	if err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Prescriptions").
		Where("patient_id = ?", patientID).
		Order("scheduled_time ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	return aps, nil
}

// Compile-time check
var _ domain.Repository = (*SchedulingGormRepository)(nil)
