package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"salonbook/models"
	"salonbook/services/booking"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubReservations struct {
	appt *models.Appointment
	err  error
	last booking.ReserveInput
}

func (s *stubReservations) Reserve(ctx context.Context, input booking.ReserveInput) (*models.Appointment, error) {
	s.last = input
	return s.appt, s.err
}

func newBookingRouter(stub *stubReservations) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewBookingHandler(stub)
	r.POST("/api/booking/create", h.CreateBookingHandler)
	return r
}

func postCreate(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/booking/create", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCreateBookingHandler(t *testing.T) {
	validBody := `{
		"salonId":"salon-1","staffId":"staff-x","serviceId":"svc-cut",
		"date":"2025-03-10","startTime":"10:00",
		"customerName":"Dana","customerPhone":"05511234567","notes":"first visit"
	}`

	t.Run("CreatesAndReturnsTheAppointmentID", func(t *testing.T) {
		stub := &stubReservations{appt: &models.Appointment{ID: "appt-1", Status: models.StatusPending}}
		r := newBookingRouter(stub)

		w := postCreate(r, validBody)
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"appointmentId":"appt-1"}`, w.Body.String())

		assert.Equal(t, 10*60, stub.last.Start)
		assert.Equal(t, "05511234567", stub.last.CustomerPhone)
		assert.Equal(t, "first visit", stub.last.Notes)
	})

	t.Run("MissingPhoneIs400", func(t *testing.T) {
		stub := &stubReservations{}
		r := newBookingRouter(stub)

		w := postCreate(r, `{
			"salonId":"salon-1","serviceId":"svc-cut","date":"2025-03-10",
			"startTime":"10:00","customerName":"Dana"
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("BadStartTimeIs400", func(t *testing.T) {
		stub := &stubReservations{}
		r := newBookingRouter(stub)

		w := postCreate(r, `{
			"salonId":"salon-1","serviceId":"svc-cut","date":"2025-03-10",
			"startTime":"ten o'clock","customerName":"Dana","customerPhone":"05511234567"
		}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("DoubleBookingIs409", func(t *testing.T) {
		stub := &stubReservations{err: booking.ConflictError{
			StaffID: "staff-x", Date: "2025-03-10", Start: 10 * 60, End: 10*60 + 45,
		}}
		r := newBookingRouter(stub)

		w := postCreate(r, validBody)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})
}
