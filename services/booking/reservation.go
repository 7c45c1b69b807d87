package booking

import (
	"context"
	"errors"
	"time"

	appointmentRepo "salonbook/database/repository/appointment"
	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/services/notification"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReserveInput describes a reservation attempt. StaffID may be the "any"
// sentinel; AppointmentID set means reschedule an existing pending
// appointment instead of creating a new one.
type ReserveInput struct {
	AppointmentID string
	SalonID       string
	StaffID       string
	ServiceID     string
	Date          string
	Start         int
	CustomerName  string
	CustomerPhone string
	Notes         string
}

// ReservationService commits appointments. This is the single point where
// double-booking is prevented.
type ReservationService interface {
	Reserve(ctx context.Context, input ReserveInput) (*models.Appointment, error)
}

// DefaultReservationService serializes writes per staff member with a keyed
// mutex and lets the appointment store recheck the interval inside its
// transaction. The mutex is the serialization point, which assumes a single
// writing process; the transactional recheck catches availability reads that
// went stale before the lock was taken.
type DefaultReservationService struct {
	Appointments appointmentRepo.AppointmentRepository
	Salons       salonRepo.SalonRepository
	Notifier     notification.Service
	locks        *staffLockStore
}

func NewDefaultReservationService(
	appts appointmentRepo.AppointmentRepository,
	salons salonRepo.SalonRepository,
	notifier notification.Service,
) *DefaultReservationService {
	return &DefaultReservationService{
		Appointments: appts,
		Salons:       salons,
		Notifier:     notifier,
		locks:        newStaffLockStore(),
	}
}

// Reserve validates the input, resolves the service duration and the staff
// member, and commits. On conflict it returns ConflictError so the caller can
// fall back to slot selection; it never silently reassigns another time.
func (s *DefaultReservationService) Reserve(ctx context.Context, input ReserveInput) (*models.Appointment, error) {
	if err := s.validate(input); err != nil {
		return nil, err
	}

	svc, err := s.Salons.GetServiceByID(ctx, input.ServiceID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrNotFound) {
			return nil, NotFoundError{Kind: "service", ID: input.ServiceID}
		}
		return nil, err
	}
	if svc.DurationMinutes <= 0 {
		return nil, ValidationError{Field: "serviceId", Reason: "service has a non-positive duration"}
	}
	if svc.SalonID != input.SalonID {
		return nil, ValidationError{Field: "serviceId", Reason: "service does not belong to the salon"}
	}
	end := input.Start + svc.DurationMinutes

	var existing *models.Appointment
	if input.AppointmentID != "" {
		existing, err = s.Appointments.GetByID(ctx, input.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				return nil, NotFoundError{Kind: "appointment", ID: input.AppointmentID}
			}
			return nil, err
		}
		if existing.Status != models.StatusPending {
			return nil, ValidationError{Field: "appointmentId", Reason: "only pending appointments can be rescheduled"}
		}
	}

	if input.StaffID == models.AnyStaff || input.StaffID == "" {
		return s.reserveAnyStaff(ctx, input, existing, end)
	}

	st, err := s.Salons.GetStaffByID(ctx, input.StaffID)
	if err != nil {
		if errors.Is(err, salonRepo.ErrNotFound) {
			return nil, NotFoundError{Kind: "staff", ID: input.StaffID}
		}
		return nil, err
	}
	if !st.Active || st.SalonID != input.SalonID {
		return nil, ValidationError{Field: "staffId", Reason: "staff member is not bookable at this salon"}
	}

	return s.commit(ctx, input, existing, st.ID, end)
}

// reserveAnyStaff walks the salon's active staff in id order and books the
// first one whose interval is free at write time. All busy means conflict.
func (s *DefaultReservationService) reserveAnyStaff(ctx context.Context, input ReserveInput, existing *models.Appointment, end int) (*models.Appointment, error) {
	staff, err := s.Salons.ListActiveStaff(ctx, input.SalonID)
	if err != nil {
		return nil, err
	}

	for _, st := range staff {
		appt, err := s.commit(ctx, input, existing, st.ID, end)
		if err != nil {
			var conflict ConflictError
			if errors.As(err, &conflict) {
				continue
			}
			return nil, err
		}
		return appt, nil
	}
	return nil, ConflictError{StaffID: models.AnyStaff, Date: input.Date, Start: input.Start, End: end}
}

// commit performs the write-time overlap check and the insert/update under
// the per-staff lock, which serializes commits in this process. The
// repository repeats the check inside its transaction to close the window
// between an availability read and the write.
func (s *DefaultReservationService) commit(ctx context.Context, input ReserveInput, existing *models.Appointment, staffID string, end int) (*models.Appointment, error) {
	lock := s.locks.get(staffID)
	lock.Lock()
	defer lock.Unlock()

	excludeID := ""
	if existing != nil {
		excludeID = existing.ID
	}
	count, err := s.Appointments.CountOverlapping(ctx, staffID, input.Date, input.Start, end, excludeID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ConflictError{StaffID: staffID, Date: input.Date, Start: input.Start, End: end}
	}

	now := time.Now()
	var appt models.Appointment
	if existing != nil {
		appt = *existing
		appt.StaffID = staffID
		appt.ServiceID = input.ServiceID
		appt.Date = input.Date
		appt.Start = input.Start
		appt.End = end
		appt.CustomerName = input.CustomerName
		appt.CustomerPhone = input.CustomerPhone
		appt.Notes = input.Notes
		appt.UpdatedAt = now
		err = s.Appointments.UpdateSlotIfFree(ctx, &appt)
	} else {
		appt = models.Appointment{
			ID:            uuid.New().String(),
			SalonID:       input.SalonID,
			StaffID:       staffID,
			ServiceID:     input.ServiceID,
			Date:          input.Date,
			Start:         input.Start,
			End:           end,
			Status:        models.StatusPending,
			CustomerName:  input.CustomerName,
			CustomerPhone: input.CustomerPhone,
			Notes:         input.Notes,
			CreatedAt:     now,
		}
		err = s.Appointments.InsertIfFree(ctx, &appt)
	}
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrSlotTaken) {
			return nil, ConflictError{StaffID: staffID, Date: input.Date, Start: input.Start, End: end}
		}
		if errors.Is(err, appointmentRepo.ErrNotFound) {
			return nil, NotFoundError{Kind: "appointment", ID: excludeID}
		}
		return nil, err
	}

	s.notify(ctx, &appt, existing != nil)
	return &appt, nil
}

// notify informs the salon on a best-effort basis; a delivery failure never
// fails the reservation.
func (s *DefaultReservationService) notify(ctx context.Context, appt *models.Appointment, updated bool) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.BookingConfirmed(ctx, appt, updated); err != nil {
		utils.GetLogger().Error("Failed to notify salon of booking",
			zap.String("salonId", appt.SalonID), zap.String("appointmentId", appt.ID), zap.Error(err))
	}
}

func (s *DefaultReservationService) validate(input ReserveInput) error {
	if input.SalonID == "" {
		return ValidationError{Field: "salonId", Reason: "required"}
	}
	if input.ServiceID == "" {
		return ValidationError{Field: "serviceId", Reason: "required"}
	}
	if input.CustomerName == "" {
		return ValidationError{Field: "customerName", Reason: "required"}
	}
	if input.CustomerPhone == "" {
		return ValidationError{Field: "customerPhone", Reason: "required"}
	}
	if input.Start < 0 || input.Start >= 24*60 {
		return ValidationError{Field: "start", Reason: "must be a minute of the day"}
	}
	if _, err := utils.ParseDate(input.Date); err != nil {
		return ValidationError{Field: "date", Reason: err.Error()}
	}
	return nil
}
