package models

// Booking wizard stages, in order. The phone-verification segment
// (phone_pending → code_sent → verified) is skipped when the acting identity
// already has a verified phone on file.
const (
	StageServiceSelected = "service_selected"
	StageStaffSelected   = "staff_selected"
	StageTimeSelected    = "time_selected"
	StagePhonePending    = "phone_pending"
	StageCodeSent        = "code_sent"
	StageVerified        = "verified"
	StageDetailsEntered  = "details_entered"
	StageConfirmed       = "confirmed"
)

// BookingSession carries the wizard selections between pages. It is held in
// Redis under its SessionID and never in process memory, so a page reload
// rehydrates it by id (plus whatever the navigation context carries).
//
// When AppointmentID is set the session edits an existing pending appointment
// instead of creating a new one.
type BookingSession struct {
	SessionID     string `json:"sessionId"`
	Stage         string `json:"stage"`
	SalonID       string `json:"salonId"`
	ServiceID     string `json:"serviceId"`
	StaffID       string `json:"staffId,omitempty"`
	Date          string `json:"date,omitempty"`
	Start         int    `json:"start,omitempty"`
	TimeChosen    bool   `json:"timeChosen,omitempty"`
	CustomerID    string `json:"customerId,omitempty"`
	CustomerName  string `json:"customerName,omitempty"`
	CustomerPhone string `json:"customerPhone,omitempty"`
	Notes         string `json:"notes,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
	PhoneVerified bool   `json:"phoneVerified"`
}

// NavContext holds the selection values a client carries through navigation
// parameters. Rehydration merges these over the server-held session so a
// time selection survives a full page reload.
type NavContext struct {
	SalonID       string `json:"salonId,omitempty"`
	ServiceID     string `json:"serviceId,omitempty"`
	StaffID       string `json:"staffId,omitempty"`
	Date          string `json:"date,omitempty"`
	Start         int    `json:"start,omitempty"`
	HasStart      bool   `json:"hasStart,omitempty"`
	AppointmentID string `json:"appointmentId,omitempty"`
}
