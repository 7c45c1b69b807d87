package schedule

import (
	"context"
	"time"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/utils"
)

// Scope selects whose calendar to resolve. When StaffID names a concrete
// staff member their weekly schedule takes precedence; otherwise the salon
// schedule applies.
type Scope struct {
	SalonID string
	StaffID string
}

// HoursResolver resolves the open/close window for a calendar day.
type HoursResolver interface {
	Resolve(ctx context.Context, scope Scope, date string) (models.WorkingWindow, error)
}

// DefaultHoursResolver reads weekly schedules from the salon directory.
type DefaultHoursResolver struct {
	Repo salonRepo.SalonRepository
}

// Resolve returns the working window for the given date. A weekday with no
// entry, or an entry marked closed, resolves to a closed window. Pure read;
// nothing is mutated.
func (r *DefaultHoursResolver) Resolve(ctx context.Context, scope Scope, date string) (models.WorkingWindow, error) {
	day, err := utils.ParseDate(date)
	if err != nil {
		return models.WorkingWindow{}, ValidationError{Field: "date", Reason: err.Error()}
	}
	weekday := day.Weekday()

	if scope.StaffID != "" && scope.StaffID != models.AnyStaff {
		windows, err := r.Repo.GetStaffHours(ctx, scope.StaffID)
		if err != nil {
			return models.WorkingWindow{}, err
		}
		if w, ok := findWindow(windows, weekday); ok {
			return w, nil
		}
		// No staff-level entry for that weekday: fall through to the salon.
	}

	windows, err := r.Repo.GetSalonHours(ctx, scope.SalonID)
	if err != nil {
		return models.WorkingWindow{}, err
	}
	if w, ok := findWindow(windows, weekday); ok {
		return w, nil
	}
	return models.ClosedWindow(weekday), nil
}

func findWindow(windows []models.WorkingWindow, day time.Weekday) (models.WorkingWindow, bool) {
	for _, w := range windows {
		if w.Day == day {
			return w, true
		}
	}
	return models.WorkingWindow{}, false
}
