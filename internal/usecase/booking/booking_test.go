package booking

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/medbrief/telemed-api/internal/audit"
	domain "github.com/medbrief/telemed-api/internal/domain/scheduling"
	"github.com/medbrief/telemed-api/internal/models"
)

// ======================================================
// FAKES
// ======================================================

type nopRecorder struct{}

func (nopRecorder) Dispatch(audit.Event) {}

type fakeCache struct {
	mu          sync.Mutex
	invalidated int
	stored      []domain.SlotView
	hasStored   bool
}

func (c *fakeCache) Get(ctx context.Context, doctorID uint) ([]domain.SlotView, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stored, c.hasStored
}

func (c *fakeCache) Set(ctx context.Context, doctorID uint, views []domain.SlotView) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stored = views
	c.hasStored = true
}

func (c *fakeCache) Invalidate(ctx context.Context, doctorID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	c.hasStored = false
}

// fakeRepo is an in-memory Repository with the same linearizability
// contract the gorm implementation provides: slot transitions happen
// under one lock, so concurrent reserves race exactly like conditional
// updates do.
type fakeRepo struct {
	mu sync.Mutex

	doctor       models.User
	slots        []models.Slot
	appointments map[uint]*models.Appointment

	nextSlotID uint
	nextApID   uint

	failCreate  bool
	createCalls int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		doctor: models.User{
			ID:              1,
			Role:            models.RoleDoctor,
			Name:            "Dr. Chen",
			Timezone:        "UTC",
			WorkStart:       "09:00",
			WorkEnd:         "10:00",
			SlotDurationMin: 30,
		},
		appointments: make(map[uint]*models.Appointment),
		nextSlotID:   1,
		nextApID:     1,
	}
}

func (r *fakeRepo) seedSlots(dateStr string, times ...[2]string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, _ := time.Parse("2006-01-02", dateStr)
	for _, tt := range times {
		r.slots = append(r.slots, models.Slot{
			ID:        r.nextSlotID,
			DoctorID:  r.doctor.ID,
			Date:      d,
			StartTime: tt[0],
			EndTime:   tt[1],
			Status:    string(domain.SlotAvailable),
		})
		r.nextSlotID++
	}
}

func (r *fakeRepo) slotStatus(i int) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.slots[i].Status
}

func (r *fakeRepo) GetDoctorByID(ctx context.Context, id uint) (*models.User, error) {
	if id != r.doctor.ID {
		return nil, fmt.Errorf("doctor %d not found", id)
	}
	d := r.doctor
	return &d, nil
}

func (r *fakeRepo) ListSlots(ctx context.Context, doctorID uint) ([]models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Slot, len(r.slots))
	copy(out, r.slots)
	return out, nil
}

func (r *fakeRepo) AppendSlots(ctx context.Context, doctorID uint, date time.Time, slots []models.Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	day := date.Format("2006-01-02")
	for _, s := range r.slots {
		if s.Date.Format("2006-01-02") == day {
			return domain.ErrDuplicateDate
		}
	}
	for _, s := range slots {
		s.ID = r.nextSlotID
		s.DoctorID = doctorID
		r.nextSlotID++
		r.slots = append(r.slots, s)
	}
	return nil
}

func (r *fakeRepo) ReserveSlot(ctx context.Context, doctorID uint, slotIndex int) (*models.Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slotIndex < 0 || slotIndex >= len(r.slots) {
		return nil, domain.ErrSlotNotFound
	}
	if r.slots[slotIndex].Status != string(domain.SlotAvailable) {
		return nil, domain.ErrSlotAlreadyBooked
	}
	r.slots[slotIndex].Status = string(domain.SlotBooked)
	s := r.slots[slotIndex]
	return &s, nil
}

func (r *fakeRepo) ReleaseSlot(ctx context.Context, slotID uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.slots {
		if r.slots[i].ID == slotID && r.slots[i].Status == string(domain.SlotBooked) {
			r.slots[i].Status = string(domain.SlotAvailable)
		}
	}
	return nil
}

func (r *fakeRepo) RemoveSlot(ctx context.Context, doctorID uint, slotIndex int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if slotIndex < 0 || slotIndex >= len(r.slots) {
		return domain.ErrSlotNotFound
	}
	if r.slots[slotIndex].Status == string(domain.SlotBooked) {
		return domain.ErrCannotRemoveBooked
	}
	r.slots = append(r.slots[:slotIndex], r.slots[slotIndex+1:]...)
	return nil
}

func (r *fakeRepo) CreateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.createCalls++
	if r.failCreate {
		return errors.New("store unavailable")
	}
	ap.ID = r.nextApID
	r.nextApID++
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) GetAppointmentForDoctor(ctx context.Context, appointmentID, doctorID uint) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ap, ok := r.appointments[appointmentID]
	if !ok || ap.DoctorID != doctorID {
		return nil, fmt.Errorf("appointment %d not found", appointmentID)
	}
	cp := *ap
	return &cp, nil
}

func (r *fakeRepo) UpdateAppointment(ctx context.Context, ap *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := *ap
	r.appointments[ap.ID] = &stored
	return nil
}

func (r *fakeRepo) ListAppointmentsForDoctor(ctx context.Context, doctorID uint, start, end time.Time) ([]models.Appointment, error) {
	return nil, nil
}

func (r *fakeRepo) ListAppointmentsForPatient(ctx context.Context, patientID uint) ([]models.Appointment, error) {
	return nil, nil
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// BOOK SLOT
// ======================================================

func TestBookSlot_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"}, [2]string{"09:30", "10:00"})
	cache := &fakeCache{}

	uc := NewBookSlot(repo, nopRecorder{}, cache, zap.NewNop())

	ap, err := uc.Execute(context.Background(), 42, 1, 0)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusPending), ap.Status)
	assert.Equal(t, uint(42), ap.PatientID)
	assert.Equal(t, uint(1), ap.DoctorID)
	assert.Equal(t, 30, ap.DurationMin)
	assert.Equal(t,
		time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC),
		ap.ScheduledTime,
	)

	assert.Equal(t, string(domain.SlotBooked), repo.slotStatus(0))
	assert.Len(t, repo.appointments, 1)
	assert.Equal(t, 1, cache.invalidated)
}

func TestBookSlot_AlreadyBookedPropagates(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	uc := NewBookSlot(repo, nopRecorder{}, &fakeCache{}, zap.NewNop())

	_, err := uc.Execute(context.Background(), 42, 1, 0)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), 43, 1, 0)
	assert.True(t, errors.Is(err, domain.ErrSlotAlreadyBooked))

	// only the winner's appointment exists
	assert.Len(t, repo.appointments, 1)
}

func TestBookSlot_UnknownIndex(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	uc := NewBookSlot(repo, nopRecorder{}, &fakeCache{}, zap.NewNop())

	_, err := uc.Execute(context.Background(), 42, 1, 5)
	assert.True(t, errors.Is(err, domain.ErrSlotNotFound))
	assert.Empty(t, repo.appointments)
}

func TestBookSlot_ConcurrentCallersExactlyOneWins(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	uc := NewBookSlot(repo, nopRecorder{}, &fakeCache{}, zap.NewNop())

	const callers = 16

	var wg sync.WaitGroup
	errs := make([]error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = uc.Execute(context.Background(), uint(100+i), 1, 0)
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.True(t, errors.Is(err, domain.ErrSlotAlreadyBooked), "got %v", err)
		}
	}

	assert.Equal(t, 1, wins)
	assert.Equal(t, string(domain.SlotBooked), repo.slotStatus(0))
	assert.Len(t, repo.appointments, 1)
}

func TestBookSlot_PersistFailureReleasesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	repo.failCreate = true
	uc := NewBookSlot(repo, nopRecorder{}, &fakeCache{}, zap.NewNop())

	_, err := uc.Execute(context.Background(), 42, 1, 0)
	assert.True(t, errors.Is(err, domain.ErrAppointmentCreate))

	// compensation: no stranded booking, no appointment record
	assert.Equal(t, string(domain.SlotAvailable), repo.slotStatus(0))
	assert.Empty(t, repo.appointments)
	assert.Equal(t, 1, repo.createCalls)
}

// ======================================================
// APPROVE / DECLINE
// ======================================================

func bookOne(t *testing.T, repo *fakeRepo) *models.Appointment {
	t.Helper()
	uc := NewBookSlot(repo, nopRecorder{}, &fakeCache{}, zap.NewNop())
	ap, err := uc.Execute(context.Background(), 42, 1, 0)
	require.NoError(t, err)
	return ap
}

func TestApprove_SecondCallIsNoOpSuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	ap := bookOne(t, repo)

	uc := NewApproveAppointment(repo, nopRecorder{})

	got, err := uc.Execute(context.Background(), 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), got.Status)

	got, err = uc.Execute(context.Background(), 1, ap.ID)
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusApproved), got.Status)
}

func TestApprove_DeclinedAppointmentRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	ap := bookOne(t, repo)

	declineUC := NewDeclineAppointment(repo, nopRecorder{}, &fakeCache{}, zap.NewNop())
	_, err := declineUC.Execute(context.Background(), 1, ap.ID)
	require.NoError(t, err)

	approveUC := NewApproveAppointment(repo, nopRecorder{})
	_, err = approveUC.Execute(context.Background(), 1, ap.ID)
	assert.True(t, errors.Is(err, domain.ErrInvalidTransition))
}

func TestDecline_ReleasesSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"})
	ap := bookOne(t, repo)
	require.Equal(t, string(domain.SlotBooked), repo.slotStatus(0))

	cache := &fakeCache{}
	uc := NewDeclineAppointment(repo, nopRecorder{}, cache, zap.NewNop())

	got, err := uc.Execute(context.Background(), 1, ap.ID)
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusDeclined), got.Status)
	require.NotNil(t, got.DeclinedAt)

	// the slot is bookable again
	assert.Equal(t, string(domain.SlotAvailable), repo.slotStatus(0))
	assert.Positive(t, cache.invalidated)
}

// ======================================================
// GENERATE / REMOVE
// ======================================================

func TestGenerateSlots_SecondCallForSameDateFails(t *testing.T) {
	repo := newFakeRepo()
	uc := NewGenerateSlots(repo, nopRecorder{}, &fakeCache{})

	slots, err := uc.Execute(context.Background(), 1, "2025-03-10")
	require.NoError(t, err)
	require.Len(t, slots, 2) // 09:00-10:00 split in 30min halves

	_, err = uc.Execute(context.Background(), 1, "2025-03-10")
	assert.True(t, errors.Is(err, domain.ErrDuplicateDate))

	// the list is unchanged
	all, err := repo.ListSlots(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestGenerateSlots_InvalidDate(t *testing.T) {
	repo := newFakeRepo()
	uc := NewGenerateSlots(repo, nopRecorder{}, &fakeCache{})

	_, err := uc.Execute(context.Background(), 1, "10/03/2025")
	assert.Error(t, err)
}

func TestRemoveSlot_BookedSlotRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10", [2]string{"09:00", "09:30"}, [2]string{"09:30", "10:00"})
	bookOne(t, repo)

	uc := NewRemoveSlot(repo, nopRecorder{}, &fakeCache{})

	err := uc.Execute(context.Background(), 1, 0)
	assert.True(t, errors.Is(err, domain.ErrCannotRemoveBooked))

	all, _ := repo.ListSlots(context.Background(), 1)
	assert.Len(t, all, 2)

	// the free slot can go
	require.NoError(t, uc.Execute(context.Background(), 1, 1))
	all, _ = repo.ListSlots(context.Background(), 1)
	assert.Len(t, all, 1)
}

// ======================================================
// AVAILABILITY
// ======================================================

func TestGetAvailability_IndexesPointIntoFullList(t *testing.T) {
	repo := newFakeRepo()
	repo.seedSlots("2025-03-10",
		[2]string{"09:00", "09:30"},
		[2]string{"09:30", "10:00"},
		[2]string{"10:00", "10:30"},
	)
	bookOne(t, repo) // books index 0

	cache := &fakeCache{}
	uc := NewGetAvailability(repo, cache)

	views, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, views, 2)

	// index 0 is booked and filtered out, but remaining indexes keep
	// their full-list positions so booking by index stays correct
	assert.Equal(t, 1, views[0].Index)
	assert.Equal(t, "09:30", views[0].StartTime)
	assert.Equal(t, 2, views[1].Index)

	// second call is served from cache
	repo.seedSlots("2025-03-11", [2]string{"09:00", "09:30"})
	cached, err := uc.Execute(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, cached, 2)
}
