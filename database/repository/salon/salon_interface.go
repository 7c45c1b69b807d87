package salonRepo

import (
	"context"

	"salonbook/models"
)

// SalonRepository is the read-only directory the booking core consults for
// salons, staff, services and working-hour schedules. Management of this
// data (onboarding wizards, admin dashboards) lives outside the core.
type SalonRepository interface {
	GetSalonByID(ctx context.Context, id string) (*models.Salon, error)
	GetServiceByID(ctx context.Context, id string) (*models.Service, error)
	GetStaffByID(ctx context.Context, id string) (*models.Staff, error)
	// ListActiveStaff returns a salon's active staff ordered by id, so
	// "any staff" resolution is deterministic.
	ListActiveStaff(ctx context.Context, salonID string) ([]models.Staff, error)
	// GetSalonHours / GetStaffHours return the weekly windows for the owner,
	// or an empty slice when none are configured.
	GetSalonHours(ctx context.Context, salonID string) ([]models.WorkingWindow, error)
	GetStaffHours(ctx context.Context, staffID string) ([]models.WorkingWindow, error)
}
