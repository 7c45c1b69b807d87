package booking

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	appointmentRepo "salonbook/database/repository/appointment"
	"salonbook/models"
	"salonbook/services/otp"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const sessionTTL = 30 * time.Minute

// SessionService manages the wizard state carried from first service pick to
// final confirmation. Sessions live in Redis keyed by session id, never in a
// process-wide singleton, so they survive page reloads and cannot bleed
// across tabs or users.
type SessionService interface {
	Start(ctx context.Context, salonID, serviceID, customerID string) (*models.BookingSession, error)
	Get(ctx context.Context, sessionID string) (*models.BookingSession, error)
	Rehydrate(ctx context.Context, sessionID string, nav models.NavContext) (*models.BookingSession, error)
	SelectStaff(ctx context.Context, sessionID, staffID string) (*models.BookingSession, error)
	SelectTime(ctx context.Context, sessionID, date string, start int) (*models.BookingSession, error)
	RequestCode(ctx context.Context, sessionID, phone string) (*otp.IssueResult, error)
	SubmitCode(ctx context.Context, sessionID, code string, consent bool) (*models.BookingSession, error)
	SetDetails(ctx context.Context, sessionID, name, notes string) (*models.BookingSession, error)
	Confirm(ctx context.Context, sessionID string) (*models.Appointment, error)
	Cancel(ctx context.Context, sessionID string) error
}

// DefaultSessionService implements SessionService over Redis.
type DefaultSessionService struct {
	Cache        *redis.Client
	Gate         otp.VerificationGate
	Reservations ReservationService
	Appointments appointmentRepo.AppointmentRepository
}

func sessionKey(id string) string { return "session:" + id }

// Start opens a session at the service-selection stage. An identity that
// already satisfies the verification gate skips the phone segment later.
func (s *DefaultSessionService) Start(ctx context.Context, salonID, serviceID, customerID string) (*models.BookingSession, error) {
	if salonID == "" {
		return nil, ValidationError{Field: "salonId", Reason: "required"}
	}
	if serviceID == "" {
		return nil, ValidationError{Field: "serviceId", Reason: "required"}
	}

	session := models.BookingSession{
		SessionID:  uuid.New().String(),
		Stage:      models.StageServiceSelected,
		SalonID:    salonID,
		ServiceID:  serviceID,
		CustomerID: customerID,
	}
	if customerID != "" {
		verified, err := s.Gate.Satisfied(ctx, customerID)
		if err != nil {
			return nil, err
		}
		session.PhoneVerified = verified
	}

	if err := s.save(ctx, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (s *DefaultSessionService) Get(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	return s.load(ctx, sessionID)
}

// Rehydrate restores a session after a page reload by combining the
// server-held state with the values the navigation context carried. When the
// server copy is gone, the navigation values alone rebuild it, including an
// appointment lookup for edit flows.
func (s *DefaultSessionService) Rehydrate(ctx context.Context, sessionID string, nav models.NavContext) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		var notFound NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
		session, err = s.rebuild(ctx, sessionID, nav)
		if err != nil {
			return nil, err
		}
	}

	if nav.StaffID != "" {
		session.StaffID = nav.StaffID
	}
	if nav.Date != "" {
		session.Date = nav.Date
	}
	if nav.HasStart {
		session.Start = nav.Start
		session.TimeChosen = true
	}
	if nav.AppointmentID != "" {
		session.AppointmentID = nav.AppointmentID
	}
	session.Stage = selectionStage(session)

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// rebuild reconstructs a lost session from navigation values. Edit flows seed
// customer details from the pending appointment being edited.
func (s *DefaultSessionService) rebuild(ctx context.Context, sessionID string, nav models.NavContext) (*models.BookingSession, error) {
	session := &models.BookingSession{
		SessionID: sessionID,
		SalonID:   nav.SalonID,
		ServiceID: nav.ServiceID,
	}

	if nav.AppointmentID != "" {
		appt, err := s.Appointments.GetByID(ctx, nav.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrNotFound) {
				return nil, NotFoundError{Kind: "appointment", ID: nav.AppointmentID}
			}
			return nil, err
		}
		session.AppointmentID = appt.ID
		session.SalonID = appt.SalonID
		session.ServiceID = appt.ServiceID
		session.CustomerName = appt.CustomerName
		session.CustomerPhone = appt.CustomerPhone
		session.Notes = appt.Notes
	}

	if session.SalonID == "" || session.ServiceID == "" {
		return nil, NotFoundError{Kind: "session", ID: sessionID}
	}
	return session, nil
}

// selectionStage derives the furthest selection stage the session's fields
// support. Verification and later stages are never derived, only earned.
func selectionStage(session *models.BookingSession) string {
	switch {
	case session.Date != "" && session.TimeChosen && session.StaffID != "":
		return models.StageTimeSelected
	case session.StaffID != "":
		return models.StageStaffSelected
	default:
		return models.StageServiceSelected
	}
}

func (s *DefaultSessionService) SelectStaff(ctx context.Context, sessionID, staffID string) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(session, models.StageServiceSelected, models.StageStaffSelected, models.StageTimeSelected); err != nil {
		return nil, err
	}
	if staffID == "" {
		return nil, ValidationError{Field: "staffId", Reason: "required"}
	}

	session.StaffID = staffID
	// Changing staff invalidates a previously picked time.
	session.Date = ""
	session.Start = 0
	session.TimeChosen = false
	session.Stage = models.StageStaffSelected

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultSessionService) SelectTime(ctx context.Context, sessionID, date string, start int) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(session, models.StageStaffSelected, models.StageTimeSelected); err != nil {
		return nil, err
	}

	session.Date = date
	session.Start = start
	session.TimeChosen = true
	session.Stage = models.StageTimeSelected

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// RequestCode enters the phone-verification segment. Identities that already
// satisfy the gate never get here; handlers route them straight to details.
func (s *DefaultSessionService) RequestCode(ctx context.Context, sessionID, phone string) (*otp.IssueResult, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(session, models.StageTimeSelected, models.StagePhonePending, models.StageCodeSent); err != nil {
		return nil, err
	}
	if session.PhoneVerified {
		return nil, ValidationError{Field: "phone", Reason: "phone already verified for this session"}
	}

	result, err := s.Gate.IssueCode(ctx, phone)
	if err != nil {
		// Record the entered phone even when issuing failed on rate limits,
		// so a retry does not need to re-enter it.
		session.CustomerPhone = phone
		if session.Stage == models.StageTimeSelected {
			session.Stage = models.StagePhonePending
		}
		_ = s.save(ctx, session)
		return nil, err
	}

	session.CustomerPhone = phone
	session.Stage = models.StageCodeSent
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DefaultSessionService) SubmitCode(ctx context.Context, sessionID, code string, consent bool) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(session, models.StageCodeSent); err != nil {
		return nil, err
	}

	result, err := s.Gate.VerifyCode(ctx, session.CustomerPhone, code, consent)
	if err != nil {
		return nil, err
	}

	session.PhoneVerified = true
	session.CustomerID = result.Profile.ID
	if session.CustomerName == "" {
		session.CustomerName = result.Profile.Name
	}
	session.Stage = models.StageVerified

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *DefaultSessionService) SetDetails(ctx context.Context, sessionID, name, notes string) (*models.BookingSession, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(session, models.StageTimeSelected, models.StageVerified, models.StageDetailsEntered); err != nil {
		return nil, err
	}
	if !session.PhoneVerified {
		return nil, ValidationError{Field: "phone", Reason: "phone verification required before entering details"}
	}
	if name == "" {
		return nil, ValidationError{Field: "customerName", Reason: "required"}
	}

	session.CustomerName = name
	session.Notes = notes
	session.Stage = models.StageDetailsEntered

	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// Confirm commits the reservation. On conflict the stale time selection is
// discarded and the session rewinds to pick a new slot; the session is only
// discarded after a successful reservation.
func (s *DefaultSessionService) Confirm(ctx context.Context, sessionID string) (*models.Appointment, error) {
	session, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := requireStage(session, models.StageDetailsEntered); err != nil {
		return nil, err
	}

	appt, err := s.Reservations.Reserve(ctx, ReserveInput{
		AppointmentID: session.AppointmentID,
		SalonID:       session.SalonID,
		StaffID:       session.StaffID,
		ServiceID:     session.ServiceID,
		Date:          session.Date,
		Start:         session.Start,
		CustomerName:  session.CustomerName,
		CustomerPhone: session.CustomerPhone,
		Notes:         session.Notes,
	})
	if err != nil {
		var conflict ConflictError
		if errors.As(err, &conflict) {
			session.Date = ""
			session.Start = 0
			session.TimeChosen = false
			session.Stage = models.StageStaffSelected
			_ = s.save(ctx, session)
		}
		return nil, err
	}

	session.Stage = models.StageConfirmed
	session.AppointmentID = appt.ID
	s.Cache.Del(ctx, sessionKey(sessionID))
	return appt, nil
}

func (s *DefaultSessionService) Cancel(ctx context.Context, sessionID string) error {
	if err := s.Cache.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to cancel booking session: %w", err)
	}
	return nil
}

func (s *DefaultSessionService) load(ctx context.Context, sessionID string) (*models.BookingSession, error) {
	data, err := s.Cache.Get(ctx, sessionKey(sessionID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, NotFoundError{Kind: "session", ID: sessionID}
		}
		return nil, fmt.Errorf("failed to load booking session: %w", err)
	}
	var session models.BookingSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to parse booking session: %w", err)
	}
	return &session, nil
}

func (s *DefaultSessionService) save(ctx context.Context, session *models.BookingSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal booking session: %w", err)
	}
	if err := s.Cache.Set(ctx, sessionKey(session.SessionID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to store booking session: %w", err)
	}
	return nil
}

func requireStage(session *models.BookingSession, allowed ...string) error {
	for _, stage := range allowed {
		if session.Stage == stage {
			return nil
		}
	}
	return ValidationError{Field: "stage", Reason: fmt.Sprintf("operation not allowed at stage %q", session.Stage)}
}
