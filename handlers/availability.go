package handlers

import (
	"net/http"

	"salonbook/services/schedule"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AvailabilityHandler serves slot queries for the booking UI.
type AvailabilityHandler struct {
	Svc    schedule.AvailabilityService
	Logger *zap.Logger
}

func NewAvailabilityHandler(svc schedule.AvailabilityService, logger *zap.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{Svc: svc, Logger: logger}
}

// GetAvailableSlotsHandler handles
// GET /api/booking/available-slots?salon_id&service_id&date[&staff_id].
func (h *AvailabilityHandler) GetAvailableSlotsHandler(c *gin.Context) {
	salonID := c.Query("salon_id")
	serviceID := c.Query("service_id")
	date := c.Query("date")
	staffID := c.Query("staff_id")

	if salonID == "" || serviceID == "" || date == "" {
		utils.JSONError(c, http.StatusBadRequest, "salon_id, service_id and date are required", "")
		return
	}

	slots, err := h.Svc.GetAvailableSlots(c.Request.Context(), schedule.SlotQuery{
		SalonID:   salonID,
		ServiceID: serviceID,
		StaffID:   staffID,
		Date:      date,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if slots == nil {
		slots = []string{}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "slots": slots})
}
