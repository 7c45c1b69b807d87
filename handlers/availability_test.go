package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"salonbook/services/schedule"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAvailability struct {
	slots []string
	err   error
	last  schedule.SlotQuery
}

func (s *stubAvailability) GetAvailableSlots(ctx context.Context, q schedule.SlotQuery) ([]string, error) {
	s.last = q
	return s.slots, s.err
}

func newAvailabilityRouter(stub *stubAvailability) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewAvailabilityHandler(stub, zap.NewNop())
	r.GET("/api/booking/available-slots", h.GetAvailableSlotsHandler)
	return r
}

func TestGetAvailableSlotsHandler(t *testing.T) {
	t.Run("ReturnsSlots", func(t *testing.T) {
		stub := &stubAvailability{slots: []string{"09:00", "09:15"}}
		r := newAvailabilityRouter(stub)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/booking/available-slots?salon_id=salon-1&service_id=svc-cut&date=2025-03-10&staff_id=staff-x", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success bool     `json:"success"`
			Slots   []string `json:"slots"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.Equal(t, []string{"09:00", "09:15"}, body.Slots)
		assert.Equal(t, "staff-x", stub.last.StaffID)
		assert.Equal(t, "2025-03-10", stub.last.Date)
	})

	t.Run("EmptyDayIsAnEmptyArray", func(t *testing.T) {
		stub := &stubAvailability{}
		r := newAvailabilityRouter(stub)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/booking/available-slots?salon_id=salon-1&service_id=svc-cut&date=2025-03-10", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"slots":[]}`, w.Body.String())
	})

	t.Run("MissingParamsAreRejected", func(t *testing.T) {
		stub := &stubAvailability{}
		r := newAvailabilityRouter(stub)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/booking/available-slots?salon_id=salon-1", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("UnknownServiceIs404", func(t *testing.T) {
		stub := &stubAvailability{err: schedule.NotFoundError{Kind: "service", ID: "svc-ghost"}}
		r := newAvailabilityRouter(stub)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/booking/available-slots?salon_id=salon-1&service_id=svc-ghost&date=2025-03-10", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("BadDateIs400", func(t *testing.T) {
		stub := &stubAvailability{err: schedule.ValidationError{Field: "date", Reason: "bad format"}}
		r := newAvailabilityRouter(stub)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet,
			"/api/booking/available-slots?salon_id=salon-1&service_id=svc-cut&date=bogus", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
