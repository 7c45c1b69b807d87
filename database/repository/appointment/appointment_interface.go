package appointmentRepo

import (
	"context"
	"errors"

	"salonbook/models"
)

// ErrSlotTaken is returned by the transactional write methods when the target
// interval overlaps another blocking appointment at commit time.
var ErrSlotTaken = errors.New("slot already taken")

// ErrNotFound is returned when an appointment does not exist.
var ErrNotFound = errors.New("appointment not found")

// AppointmentRepository is the appointment store. The write methods carry the
// double-booking guarantee: the overlap check and the insert/update happen in
// one transaction, so of two racing writes for the same staff and interval at
// most one commits.
type AppointmentRepository interface {
	GetByID(ctx context.Context, id string) (*models.Appointment, error)
	// ListBlockingForStaff returns the pending and confirmed appointments of
	// one staff member on one date, ordered by start time.
	ListBlockingForStaff(ctx context.Context, staffID, date string) ([]models.Appointment, error)
	// CountOverlapping counts blocking appointments of staffID on date whose
	// interval overlaps [start, end), excluding excludeID when non-empty.
	CountOverlapping(ctx context.Context, staffID, date string, start, end int, excludeID string) (int64, error)
	// InsertIfFree inserts the appointment unless its interval is taken.
	InsertIfFree(ctx context.Context, appt *models.Appointment) error
	// UpdateSlotIfFree moves an existing appointment to appt's slot unless the
	// interval is taken by some other appointment. Replaying the same update
	// with the same target slot succeeds without creating duplicates.
	UpdateSlotIfFree(ctx context.Context, appt *models.Appointment) error
}
