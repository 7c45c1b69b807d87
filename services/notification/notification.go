package notification

import (
	"context"
	"fmt"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/services/sms"
	"salonbook/utils"
)

// Service informs a salon about new or changed bookings. Delivery mechanics
// live behind the SMS dispatcher; only the trigger and payload are owned here.
type Service interface {
	BookingConfirmed(ctx context.Context, appt *models.Appointment, updated bool) error
}

// SMSNotifier texts the salon's contact number.
type SMSNotifier struct {
	Salons salonRepo.SalonRepository
	SMS    sms.Dispatcher
}

func (n *SMSNotifier) BookingConfirmed(ctx context.Context, appt *models.Appointment, updated bool) error {
	salon, err := n.Salons.GetSalonByID(ctx, appt.SalonID)
	if err != nil {
		return fmt.Errorf("BookingConfirmed: could not find salon %s: %w", appt.SalonID, err)
	}
	if salon.Phone == "" {
		// No push target; nothing to do.
		return nil
	}

	verb := "New booking"
	if updated {
		verb = "Booking changed"
	}
	message := fmt.Sprintf("%s: %s on %s at %s (%s).",
		verb, appt.CustomerName, appt.Date, utils.MinutesToClock(appt.Start), appt.ID)

	return n.SMS.Send(ctx, salon.Phone, message)
}
