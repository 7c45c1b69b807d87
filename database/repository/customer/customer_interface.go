package customerRepo

import (
	"context"
	"errors"

	"salonbook/models"
)

// ErrNotFound is returned when a customer profile does not exist.
var ErrNotFound = errors.New("customer not found")

// CustomerRepository stores customer profiles and their phone-verification and
// messaging-consent records.
type CustomerRepository interface {
	GetByID(ctx context.Context, id string) (*models.CustomerProfile, error)
	GetByPhone(ctx context.Context, phone string) (*models.CustomerProfile, error)
	// RecordVerification marks the phone as verified and stores the consent
	// flag, creating the profile when none exists. The second return value
	// reports whether a profile already existed for the phone.
	RecordVerification(ctx context.Context, phone string, consent bool) (*models.CustomerProfile, bool, error)
}
