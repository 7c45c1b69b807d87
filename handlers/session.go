package handlers

import (
	"net/http"

	"salonbook/middleware"
	"salonbook/models"
	"salonbook/services/booking"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
)

// SessionHandler serves the booking wizard endpoints.
type SessionHandler struct {
	Sessions booking.SessionService
}

func NewSessionHandler(sessions booking.SessionService) *SessionHandler {
	return &SessionHandler{Sessions: sessions}
}

// StartSessionHandler handles POST /api/booking/session.
func (h *SessionHandler) StartSessionHandler(c *gin.Context) {
	var req struct {
		SalonID   string `json:"salonId" binding:"required"`
		ServiceID string `json:"serviceId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	session, err := h.Sessions.Start(c.Request.Context(), req.SalonID, req.ServiceID, middleware.CustomerID(c))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// GetSessionHandler handles GET /api/booking/session/:sessionID. Navigation
// parameters carried in the query rehydrate the session after a page reload.
func (h *SessionHandler) GetSessionHandler(c *gin.Context) {
	nav := models.NavContext{
		SalonID:       c.Query("salon_id"),
		ServiceID:     c.Query("service_id"),
		StaffID:       c.Query("staff_id"),
		Date:          c.Query("date"),
		AppointmentID: c.Query("appointment_id"),
	}
	if t := c.Query("time"); t != "" {
		start, err := utils.ClockToMinutes(t)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
			return
		}
		nav.Start = start
		nav.HasStart = true
	}

	session, err := h.Sessions.Rehydrate(c.Request.Context(), c.Param("sessionID"), nav)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "session": session})
}

// UpdateSessionHandler handles PUT /api/booking/session/:sessionID. Each call
// advances the wizard one step.
func (h *SessionHandler) UpdateSessionHandler(c *gin.Context) {
	var req struct {
		Action       string `json:"action" binding:"required"`
		StaffID      string `json:"staffId"`
		Date         string `json:"date"`
		Time         string `json:"time"`
		Phone        string `json:"phone"`
		OTP          string `json:"otp"`
		Consent      bool   `json:"consent"`
		CustomerName string `json:"customerName"`
		Notes        string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	ctx := c.Request.Context()
	sessionID := c.Param("sessionID")

	switch req.Action {
	case "select_staff":
		session, err := h.Sessions.SelectStaff(ctx, sessionID, req.StaffID)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "session": session})

	case "select_time":
		start, err := utils.ClockToMinutes(req.Time)
		if err != nil {
			utils.JSONError(c, http.StatusBadRequest, "invalid request", err.Error())
			return
		}
		session, err := h.Sessions.SelectTime(ctx, sessionID, req.Date, start)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "session": session})

	case "request_code":
		result, err := h.Sessions.RequestCode(ctx, sessionID, req.Phone)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		resp := gin.H{"success": true}
		if result.DemoMode {
			resp["demoMode"] = true
			resp["demoCode"] = result.DemoCode
		}
		c.JSON(http.StatusOK, resp)

	case "submit_code":
		session, err := h.Sessions.SubmitCode(ctx, sessionID, req.OTP, req.Consent)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "session": session})

	case "set_details":
		session, err := h.Sessions.SetDetails(ctx, sessionID, req.CustomerName, req.Notes)
		if err != nil {
			writeServiceError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "session": session})

	default:
		utils.JSONError(c, http.StatusBadRequest, "unknown action", "")
	}
}

// ConfirmSessionHandler handles POST /api/booking/session/:sessionID/confirm.
func (h *SessionHandler) ConfirmSessionHandler(c *gin.Context) {
	appt, err := h.Sessions.Confirm(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "appointmentId": appt.ID})
}

// CancelSessionHandler handles DELETE /api/booking/session/:sessionID.
func (h *SessionHandler) CancelSessionHandler(c *gin.Context) {
	if err := h.Sessions.Cancel(c.Request.Context(), c.Param("sessionID")); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
