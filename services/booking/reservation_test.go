package booking

import (
	"context"
	"sort"
	"sync"
	"testing"

	appointmentRepo "salonbook/database/repository/appointment"
	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryAppointments mimics the transactional store: the overlap check and
// the write happen under one lock, so InsertIfFree really is atomic.
type memoryAppointments struct {
	mu    sync.Mutex
	appts []models.Appointment
}

func (m *memoryAppointments) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.appts {
		if m.appts[i].ID == id {
			appt := m.appts[i]
			return &appt, nil
		}
	}
	return nil, appointmentRepo.ErrNotFound
}

func (m *memoryAppointments) ListBlockingForStaff(ctx context.Context, staffID, date string) ([]models.Appointment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Appointment
	for _, a := range m.appts {
		if a.StaffID == staffID && a.Date == date && a.Blocks() {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memoryAppointments) CountOverlapping(ctx context.Context, staffID, date string, start, end int, excludeID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.countLocked(staffID, date, start, end, excludeID), nil
}

func (m *memoryAppointments) countLocked(staffID, date string, start, end int, excludeID string) int64 {
	var count int64
	for _, a := range m.appts {
		if a.StaffID == staffID && a.Date == date && a.Blocks() && a.ID != excludeID && a.Overlaps(start, end) {
			count++
		}
	}
	return count
}

func (m *memoryAppointments) InsertIfFree(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countLocked(appt.StaffID, appt.Date, appt.Start, appt.End, "") > 0 {
		return appointmentRepo.ErrSlotTaken
	}
	m.appts = append(m.appts, *appt)
	return nil
}

func (m *memoryAppointments) UpdateSlotIfFree(ctx context.Context, appt *models.Appointment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.countLocked(appt.StaffID, appt.Date, appt.Start, appt.End, appt.ID) > 0 {
		return appointmentRepo.ErrSlotTaken
	}
	for i := range m.appts {
		if m.appts[i].ID == appt.ID && m.appts[i].Status == models.StatusPending {
			m.appts[i] = *appt
			return nil
		}
	}
	return appointmentRepo.ErrNotFound
}

func (m *memoryAppointments) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.appts)
}

type fakeSalons struct {
	salons   map[string]*models.Salon
	services map[string]*models.Service
	staff    map[string]*models.Staff
}

func newFakeSalons() *fakeSalons {
	return &fakeSalons{
		salons:   make(map[string]*models.Salon),
		services: make(map[string]*models.Service),
		staff:    make(map[string]*models.Staff),
	}
}

func (f *fakeSalons) GetSalonByID(ctx context.Context, id string) (*models.Salon, error) {
	if s, ok := f.salons[id]; ok {
		return s, nil
	}
	return nil, salonRepo.ErrNotFound
}

func (f *fakeSalons) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	if s, ok := f.services[id]; ok {
		return s, nil
	}
	return nil, salonRepo.ErrNotFound
}

func (f *fakeSalons) GetStaffByID(ctx context.Context, id string) (*models.Staff, error) {
	if s, ok := f.staff[id]; ok {
		return s, nil
	}
	return nil, salonRepo.ErrNotFound
}

func (f *fakeSalons) ListActiveStaff(ctx context.Context, salonID string) ([]models.Staff, error) {
	var out []models.Staff
	for _, s := range f.staff {
		if s.SalonID == salonID && s.Active {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeSalons) GetSalonHours(ctx context.Context, salonID string) ([]models.WorkingWindow, error) {
	return nil, nil
}

func (f *fakeSalons) GetStaffHours(ctx context.Context, staffID string) ([]models.WorkingWindow, error) {
	return nil, nil
}

type countingNotifier struct {
	mu      sync.Mutex
	created int
	updated int
}

func (n *countingNotifier) BookingConfirmed(ctx context.Context, appt *models.Appointment, updated bool) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if updated {
		n.updated++
	} else {
		n.created++
	}
	return nil
}

func seedBookableSalon(dir *fakeSalons) {
	dir.salons["salon-1"] = &models.Salon{ID: "salon-1", Name: "Studio", Phone: "05500000000", Active: true}
	dir.services["svc-cut"] = &models.Service{ID: "svc-cut", SalonID: "salon-1", DurationMinutes: 45, Price: 300}
	dir.staff["staff-x"] = &models.Staff{ID: "staff-x", SalonID: "salon-1", Active: true}
	dir.staff["staff-y"] = &models.Staff{ID: "staff-y", SalonID: "salon-1", Active: true}
}

func baseInput() ReserveInput {
	return ReserveInput{
		SalonID:       "salon-1",
		StaffID:       "staff-x",
		ServiceID:     "svc-cut",
		Date:          "2025-03-10",
		Start:         10 * 60,
		CustomerName:  "Dana",
		CustomerPhone: "05511234567",
	}
}

func TestReserve(t *testing.T) {
	ctx := context.Background()

	t.Run("CreatesPendingAppointment", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		notifier := &countingNotifier{}
		svc := NewDefaultReservationService(store, dir, notifier)

		appt, err := svc.Reserve(ctx, baseInput())
		require.NoError(t, err)
		assert.NotEmpty(t, appt.ID)
		assert.Equal(t, models.StatusPending, appt.Status)
		assert.Equal(t, 10*60, appt.Start)
		assert.Equal(t, 10*60+45, appt.End)
		assert.Equal(t, 1, store.len())
		assert.Equal(t, 1, notifier.created)
	})

	t.Run("OverlapIsConflict", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		svc := NewDefaultReservationService(store, dir, nil)

		_, err := svc.Reserve(ctx, baseInput())
		require.NoError(t, err)

		input := baseInput()
		input.Start = 10*60 + 30 // overlaps 10:00-10:45
		_, err = svc.Reserve(ctx, input)
		var conflict ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, "staff-x", conflict.StaffID)
		assert.Equal(t, 1, store.len())
	})

	t.Run("AdjacentIntervalsDoNotConflict", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		svc := NewDefaultReservationService(store, dir, nil)

		_, err := svc.Reserve(ctx, baseInput())
		require.NoError(t, err)

		input := baseInput()
		input.Start = 10*60 + 45 // starts exactly when the first ends
		_, err = svc.Reserve(ctx, input)
		assert.NoError(t, err)
		assert.Equal(t, 2, store.len())
	})

	t.Run("ConcurrentReservesHaveOneWinner", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		svc := NewDefaultReservationService(store, dir, nil)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, errs[i] = svc.Reserve(ctx, baseInput())
			}(i)
		}
		wg.Wait()

		var conflicts int
		for _, err := range errs {
			if err != nil {
				var conflict ConflictError
				require.ErrorAs(t, err, &conflict)
				conflicts++
			}
		}
		assert.Equal(t, 1, conflicts)
		assert.Equal(t, 1, store.len())
	})

	t.Run("AnyStaffPicksLowestFreeID", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		svc := NewDefaultReservationService(store, dir, nil)

		input := baseInput()
		input.StaffID = models.AnyStaff
		appt, err := svc.Reserve(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "staff-x", appt.StaffID)

		// staff-x is now busy, so the next booking lands on staff-y.
		second, err := svc.Reserve(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, "staff-y", second.StaffID)

		// Everyone is busy.
		_, err = svc.Reserve(ctx, input)
		var conflict ConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, models.AnyStaff, conflict.StaffID)
	})

	t.Run("RescheduleMovesTheSameAppointment", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		notifier := &countingNotifier{}
		svc := NewDefaultReservationService(store, dir, notifier)

		appt, err := svc.Reserve(ctx, baseInput())
		require.NoError(t, err)

		input := baseInput()
		input.AppointmentID = appt.ID
		input.Start = 14 * 60
		moved, err := svc.Reserve(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, appt.ID, moved.ID)
		assert.Equal(t, 14*60, moved.Start)
		assert.Equal(t, 1, store.len())
		assert.Equal(t, 1, notifier.updated)
	})

	t.Run("RescheduleToOwnSlotIsIdempotent", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{}
		svc := NewDefaultReservationService(store, dir, nil)

		appt, err := svc.Reserve(ctx, baseInput())
		require.NoError(t, err)

		input := baseInput()
		input.AppointmentID = appt.ID
		for i := 0; i < 2; i++ {
			same, err := svc.Reserve(ctx, input)
			require.NoError(t, err)
			assert.Equal(t, appt.ID, same.ID)
		}
		assert.Equal(t, 1, store.len())
	})

	t.Run("CancelledAppointmentCannotBeRescheduled", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		store := &memoryAppointments{appts: []models.Appointment{{
			ID: "appt-1", SalonID: "salon-1", StaffID: "staff-x", Date: "2025-03-10",
			Start: 9 * 60, End: 9*60 + 45, Status: models.StatusCancelled,
		}}}
		svc := NewDefaultReservationService(store, dir, nil)

		input := baseInput()
		input.AppointmentID = "appt-1"
		_, err := svc.Reserve(ctx, input)
		assert.ErrorAs(t, err, &ValidationError{})
	})

	t.Run("ValidationErrors", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		svc := NewDefaultReservationService(&memoryAppointments{}, dir, nil)

		cases := []struct {
			name   string
			mutate func(*ReserveInput)
		}{
			{"MissingName", func(in *ReserveInput) { in.CustomerName = "" }},
			{"MissingPhone", func(in *ReserveInput) { in.CustomerPhone = "" }},
			{"BadDate", func(in *ReserveInput) { in.Date = "10/03/2025" }},
			{"StartOutOfRange", func(in *ReserveInput) { in.Start = 25 * 60 }},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				input := baseInput()
				tc.mutate(&input)
				_, err := svc.Reserve(ctx, input)
				assert.ErrorAs(t, err, &ValidationError{})
			})
		}
	})

	t.Run("UnknownStaffIsNotFound", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		svc := NewDefaultReservationService(&memoryAppointments{}, dir, nil)

		input := baseInput()
		input.StaffID = "staff-ghost"
		_, err := svc.Reserve(ctx, input)
		assert.ErrorAs(t, err, &NotFoundError{})
	})

	t.Run("ServiceFromAnotherSalonIsRejected", func(t *testing.T) {
		dir := newFakeSalons()
		seedBookableSalon(dir)
		dir.services["svc-foreign"] = &models.Service{ID: "svc-foreign", SalonID: "salon-2", DurationMinutes: 30}
		svc := NewDefaultReservationService(&memoryAppointments{}, dir, nil)

		input := baseInput()
		input.ServiceID = "svc-foreign"
		_, err := svc.Reserve(ctx, input)
		assert.ErrorAs(t, err, &ValidationError{})
	})
}
