package handlers

import (
	"errors"
	"net/http"

	"salonbook/services/booking"
	"salonbook/services/otp"
	"salonbook/services/schedule"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeServiceError maps the service error taxonomy onto HTTP statuses.
// Unexpected errors are logged once and surfaced as a generic failure.
func writeServiceError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	var (
		bookingValidation  booking.ValidationError
		scheduleValidation schedule.ValidationError
		otpValidation      otp.ValidationError
		bookingNotFound    booking.NotFoundError
		scheduleNotFound   schedule.NotFoundError
		conflict           booking.ConflictError
		expired            otp.ExpiredError
		locked             otp.LockedError
		rateLimited        otp.RateLimitError
	)

	switch {
	case errors.As(err, &bookingValidation), errors.As(err, &scheduleValidation), errors.As(err, &otpValidation):
		status = http.StatusBadRequest
	case errors.As(err, &bookingNotFound), errors.As(err, &scheduleNotFound):
		status = http.StatusNotFound
	case errors.As(err, &conflict):
		status = http.StatusConflict
	case errors.As(err, &expired):
		status = http.StatusGone
	case errors.As(err, &locked):
		status = http.StatusLocked
	case errors.As(err, &rateLimited):
		status = http.StatusTooManyRequests
	}

	if status == http.StatusInternalServerError {
		utils.GetLogger().Error("Unhandled service error", zap.Error(err))
		utils.JSONError(c, status, "internal error", "")
		return
	}
	utils.JSONError(c, status, err.Error(), "")
}
