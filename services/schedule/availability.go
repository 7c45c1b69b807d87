package schedule

import (
	"context"
	"sort"
	"time"

	appointmentRepo "salonbook/database/repository/appointment"
	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/utils"
)

// DefaultGranularity is the step in minutes between candidate start times.
const DefaultGranularity = 15

// SlotQuery asks for the bookable start times of one salon day. An empty or
// "any" StaffID requests the union across all active staff.
type SlotQuery struct {
	SalonID     string
	ServiceID   string
	StaffID     string
	Date        string
	Granularity int
}

// AvailabilityService computes bookable start times.
type AvailabilityService interface {
	GetAvailableSlots(ctx context.Context, q SlotQuery) ([]string, error)
}

// DefaultAvailabilityService derives slots from working hours and existing
// appointments. Reads only; the write-time conflict check lives in the
// reservation service.
type DefaultAvailabilityService struct {
	Salons       salonRepo.SalonRepository
	Appointments appointmentRepo.AppointmentRepository
	Resolver     HoursResolver
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// ComputeSlots generates the candidate grid for one window and filters out
// candidates that overlap busy intervals or, when filterPast is set, have
// already passed nowMinute. Returned minutes are ascending.
func ComputeSlots(window models.WorkingWindow, duration int, busy []models.Appointment, granularity int, nowMinute int, filterPast bool) []int {
	if window.Closed || duration > window.Span() {
		return nil
	}
	if granularity <= 0 {
		granularity = DefaultGranularity
	}

	var slots []int
	for t := window.Start; t+duration <= window.End; t += granularity {
		if filterPast && t < nowMinute {
			continue
		}
		if overlapsAny(busy, t, t+duration) {
			continue
		}
		slots = append(slots, t)
	}
	return slots
}

func overlapsAny(busy []models.Appointment, start, end int) bool {
	for _, b := range busy {
		if b.Blocks() && b.Overlaps(start, end) {
			return true
		}
	}
	return false
}

// GetAvailableSlots resolves the service duration and returns the sorted
// "HH:MM" start times. With a pinned staff member only their calendar counts;
// otherwise a time is available when at least one active staff member is free.
func (s *DefaultAvailabilityService) GetAvailableSlots(ctx context.Context, q SlotQuery) ([]string, error) {
	svc, err := s.Salons.GetServiceByID(ctx, q.ServiceID)
	if err != nil {
		if err == salonRepo.ErrNotFound {
			return nil, NotFoundError{Kind: "service", ID: q.ServiceID}
		}
		return nil, err
	}
	if svc.DurationMinutes <= 0 {
		return nil, ValidationError{Field: "serviceId", Reason: "service has a non-positive duration"}
	}
	if _, err := utils.ParseDate(q.Date); err != nil {
		return nil, ValidationError{Field: "date", Reason: err.Error()}
	}

	now := s.now()
	sameDay := utils.FormatDate(now) == q.Date
	nowMinute := utils.MinuteOfDay(now)

	var minutes []int
	if q.StaffID != "" && q.StaffID != models.AnyStaff {
		minutes, err = s.staffSlots(ctx, q, q.StaffID, svc.DurationMinutes, nowMinute, sameDay)
		if err != nil {
			return nil, err
		}
	} else {
		staff, err := s.Salons.ListActiveStaff(ctx, q.SalonID)
		if err != nil {
			return nil, err
		}
		union := make(map[int]struct{})
		for _, st := range staff {
			slots, err := s.staffSlots(ctx, q, st.ID, svc.DurationMinutes, nowMinute, sameDay)
			if err != nil {
				return nil, err
			}
			for _, m := range slots {
				union[m] = struct{}{}
			}
		}
		for m := range union {
			minutes = append(minutes, m)
		}
		sort.Ints(minutes)
	}

	out := make([]string, 0, len(minutes))
	for _, m := range minutes {
		out = append(out, utils.MinutesToClock(m))
	}
	return out, nil
}

func (s *DefaultAvailabilityService) staffSlots(ctx context.Context, q SlotQuery, staffID string, duration, nowMinute int, sameDay bool) ([]int, error) {
	st, err := s.Salons.GetStaffByID(ctx, staffID)
	if err != nil {
		if err == salonRepo.ErrNotFound {
			return nil, NotFoundError{Kind: "staff", ID: staffID}
		}
		return nil, err
	}
	if !st.Active || st.SalonID != q.SalonID {
		return nil, nil
	}

	window, err := s.Resolver.Resolve(ctx, Scope{SalonID: q.SalonID, StaffID: staffID}, q.Date)
	if err != nil {
		return nil, err
	}
	busy, err := s.Appointments.ListBlockingForStaff(ctx, staffID, q.Date)
	if err != nil {
		return nil, err
	}
	return ComputeSlots(window, duration, busy, q.Granularity, nowMinute, sameDay), nil
}

func (s *DefaultAvailabilityService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
