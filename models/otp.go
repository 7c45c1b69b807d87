package models

import "time"

// OTPChallenge is a single-use phone verification code. It lives in Redis
// under a TTL matching ExpiresAt and is removed atomically on a successful
// verify, so a consumed code can never verify twice.
type OTPChallenge struct {
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
	Attempts  int       `json:"attempts"`
}

// Expired reports whether the challenge TTL has elapsed at the given instant.
func (c OTPChallenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
