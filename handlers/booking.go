package handlers

import (
	"net/http"

	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// BookingHandler serves the direct reservation endpoint.
type BookingHandler struct {
	Reservations booking.ReservationService
}

func NewBookingHandler(reservations booking.ReservationService) *BookingHandler {
	return &BookingHandler{Reservations: reservations}
}

// CreateBookingHandler handles POST /api/booking/create. A double-booking
// comes back as 409 with a conflict message so the client re-queries
// availability instead of retrying the same slot.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	var req struct {
		AppointmentID string `json:"appointmentId"`
		SalonID       string `json:"salonId" binding:"required"`
		StaffID       string `json:"staffId"`
		ServiceID     string `json:"serviceId" binding:"required"`
		Date          string `json:"date" binding:"required"`
		StartTime     string `json:"startTime" binding:"required"`
		CustomerName  string `json:"customerName" binding:"required"`
		CustomerPhone string `json:"customerPhone" binding:"required"`
		Notes         string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	start, err := utils.ClockToMinutes(req.StartTime)
	if err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid startTime", err.Error())
		return
	}

	appt, err := h.Reservations.Reserve(c.Request.Context(), booking.ReserveInput{
		AppointmentID: req.AppointmentID,
		SalonID:       req.SalonID,
		StaffID:       req.StaffID,
		ServiceID:     req.ServiceID,
		Date:          req.Date,
		Start:         start,
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Notes:         req.Notes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "appointmentId": appt.ID})
}
