package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"salonbook/models"
	"salonbook/services/otp"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGate struct {
	issue     *otp.IssueResult
	issueErr  error
	verify    *otp.VerifyResult
	verifyErr error
}

func (g *stubGate) IssueCode(ctx context.Context, phone string) (*otp.IssueResult, error) {
	return g.issue, g.issueErr
}

func (g *stubGate) VerifyCode(ctx context.Context, phone, code string, consent bool) (*otp.VerifyResult, error) {
	return g.verify, g.verifyErr
}

func (g *stubGate) Satisfied(ctx context.Context, customerID string) (bool, error) {
	return false, nil
}

func newOTPRouter(gate otp.VerificationGate) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewOTPHandler(gate)
	r.POST("/api/auth/send-otp", h.SendOTPHandler)
	r.POST("/api/auth/verify-phone", h.VerifyPhoneHandler)
	return r
}

func TestSendOTPHandler(t *testing.T) {
	t.Run("DemoModeSurfacesTheCode", func(t *testing.T) {
		r := newOTPRouter(&stubGate{issue: &otp.IssueResult{DemoMode: true, DemoCode: "123456"}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp",
			strings.NewReader(`{"phone":"05511234567"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true,"demoMode":true,"demoCode":"123456"}`, w.Body.String())
	})

	t.Run("RealSendHidesTheCode", func(t *testing.T) {
		r := newOTPRouter(&stubGate{issue: &otp.IssueResult{}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp",
			strings.NewReader(`{"phone":"05511234567"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"success":true}`, w.Body.String())
	})

	t.Run("CooldownIs429", func(t *testing.T) {
		r := newOTPRouter(&stubGate{issueErr: otp.RateLimitError{Phone: "05511234567", RetryAfter: 30 * time.Second}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp",
			strings.NewReader(`{"phone":"05511234567"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Contains(t, w.Body.String(), `"success":false`)
	})

	t.Run("MissingPhoneIs400", func(t *testing.T) {
		r := newOTPRouter(&stubGate{})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/send-otp", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestVerifyPhoneHandler(t *testing.T) {
	t.Run("SuccessMintsABearerToken", func(t *testing.T) {
		profile := &models.CustomerProfile{ID: "cust-1", Phone: "05511234567", PhoneVerified: true}
		r := newOTPRouter(&stubGate{verify: &otp.VerifyResult{Profile: profile, ProfileExisted: true}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-phone",
			strings.NewReader(`{"phone":"05511234567","otp":"123456","consent":true}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Success        bool                   `json:"success"`
			ProfileExisted bool                   `json:"profileExisted"`
			Profile        models.CustomerProfile `json:"profile"`
			Token          string                 `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.True(t, body.Success)
		assert.True(t, body.ProfileExisted)
		assert.Equal(t, "cust-1", body.Profile.ID)

		// The returned token resolves back to the verified profile.
		require.NotEmpty(t, body.Token)
		subject, err := utils.ExtractIDFromToken(body.Token)
		require.NoError(t, err)
		assert.Equal(t, "cust-1", subject)
	})

	t.Run("WrongCodeIs400", func(t *testing.T) {
		r := newOTPRouter(&stubGate{verifyErr: otp.ValidationError{Field: "otp", Reason: "code does not match"}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-phone",
			strings.NewReader(`{"phone":"05511234567","otp":"000000"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("LockedIs423", func(t *testing.T) {
		r := newOTPRouter(&stubGate{verifyErr: otp.LockedError{Phone: "05511234567"}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/auth/verify-phone",
			strings.NewReader(`{"phone":"05511234567","otp":"000000"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusLocked, w.Code)
	})
}
