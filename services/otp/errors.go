package otp

import (
	"fmt"
	"time"
)

// ValidationError reports a malformed phone number or a code mismatch.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// ExpiredError reports a challenge past its TTL, never issued, or already
// consumed. Replaying a successfully verified code lands here.
type ExpiredError struct {
	Phone string
}

func (e ExpiredError) Error() string {
	return fmt.Sprintf("verification code for %s expired or already used", e.Phone)
}

// LockedError reports a challenge terminated after too many wrong attempts.
type LockedError struct {
	Phone string
}

func (e LockedError) Error() string {
	return fmt.Sprintf("verification for %s locked after too many attempts", e.Phone)
}

// RateLimitError reports a resend before the cooldown elapsed.
type RateLimitError struct {
	Phone      string
	RetryAfter time.Duration
}

func (e RateLimitError) Error() string {
	return fmt.Sprintf("resend for %s rate limited, retry after %s", e.Phone, e.RetryAfter)
}
