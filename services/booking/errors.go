package booking

import (
	"fmt"

	"salonbook/utils"
)

// ConflictError reports a reservation rejected because the target interval
// was no longer free at commit time. Callers react by discarding the stale
// slot and re-querying availability; it is never retried automatically.
type ConflictError struct {
	StaffID string
	Date    string
	Start   int
	End     int
}

func (e ConflictError) Error() string {
	return fmt.Sprintf("conflict: slot %s-%s on %s is no longer available",
		utils.MinutesToClock(e.Start), utils.MinutesToClock(e.End), e.Date)
}

// ValidationError reports a malformed or missing reservation field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError reports an unknown salon, staff, service, appointment or
// session.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}
