package models

import "time"

// Appointment statuses. Cancelled appointments release their interval; the
// other two block it.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

// Appointment is a reserved interval for one staff member. Date is a
// "YYYY-MM-DD" string, Start/End are minutes from midnight, End exclusive.
//
// Invariant: for a given StaffID and Date, no two appointments with status
// pending or confirmed may have overlapping [Start, End) intervals.
type Appointment struct {
	ID            string    `bson:"id" json:"id"`
	SalonID       string    `bson:"salonId" json:"salonId"`
	StaffID       string    `bson:"staffId" json:"staffId"`
	ServiceID     string    `bson:"serviceId" json:"serviceId"`
	Date          string    `bson:"date" json:"date"`
	Start         int       `bson:"start" json:"start"`
	End           int       `bson:"end" json:"end"`
	Status        string    `bson:"status" json:"status"`
	CustomerName  string    `bson:"customerName" json:"customerName"`
	CustomerPhone string    `bson:"customerPhone" json:"customerPhone"`
	Notes         string    `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt     time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// Blocks reports whether the appointment still occupies its interval.
func (a Appointment) Blocks() bool {
	return a.Status == StatusPending || a.Status == StatusConfirmed
}

// Overlaps applies the half-open interval test against [start, end).
func (a Appointment) Overlaps(start, end int) bool {
	return start < a.End && a.Start < end
}
