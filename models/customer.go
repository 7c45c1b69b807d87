package models

import "time"

// CustomerProfile is the durable record backing the phone-verification gate.
// MessagingConsent and ConsentAt form the compliance record required before
// any commercial message may be sent to the phone.
type CustomerProfile struct {
	ID               string    `bson:"id" json:"id"`
	Phone            string    `bson:"phone" json:"phone"`
	Name             string    `bson:"name,omitempty" json:"name,omitempty"`
	Email            string    `bson:"email,omitempty" json:"email,omitempty"`
	PhoneVerified    bool      `bson:"phoneVerified" json:"phoneVerified"`
	MessagingConsent bool      `bson:"messagingConsent" json:"messagingConsent"`
	ConsentAt        time.Time `bson:"consentAt,omitempty" json:"consentAt,omitempty"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
}
