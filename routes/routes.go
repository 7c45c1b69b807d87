package routes

import (
	"net/http"
	"time"

	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the route table needs.
type HandlerBundle struct {
	Availability *handlers.AvailabilityHandler
	OTP          *handlers.OTPHandler
	Booking      *handlers.BookingHandler
	Session      *handlers.SessionHandler
}

// RegisterAuthRoutes registers the phone-verification endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/send-otp", hb.OTP.SendOTPHandler)
		api.POST("/verify-phone", hb.OTP.VerifyPhoneHandler)
	}
}

// RegisterBookingRoutes sets up the endpoints for the booking engine.
func RegisterBookingRoutes(r *gin.Engine, hb *HandlerBundle) {
	bookingGroup := r.Group("/api/booking")
	{
		bookingGroup.Use(middleware.OptionalAuthMiddleware())
		bookingGroup.GET("/available-slots", hb.Availability.GetAvailableSlotsHandler)
		bookingGroup.POST("/create", hb.Booking.CreateBookingHandler)

		bookingGroup.POST("/session", hb.Session.StartSessionHandler)
		bookingGroup.GET("/session/:sessionID", hb.Session.GetSessionHandler)
		bookingGroup.PUT("/session/:sessionID", hb.Session.UpdateSessionHandler)
		bookingGroup.POST("/session/:sessionID/confirm", hb.Session.ConfirmSessionHandler)
		bookingGroup.DELETE("/session/:sessionID", hb.Session.CancelSessionHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "services": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterHealthRoute(r)
}
