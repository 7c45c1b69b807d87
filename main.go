package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"salonbook/config"
	"salonbook/database"
	appointmentRepo "salonbook/database/repository/appointment"
	customerRepo "salonbook/database/repository/customer"
	salonRepo "salonbook/database/repository/salon"
	"salonbook/handlers"
	"salonbook/middleware"
	"salonbook/routes"
	"salonbook/services/booking"
	"salonbook/services/notification"
	"salonbook/services/otp"
	"salonbook/services/schedule"
	"salonbook/services/sms"
	"salonbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitRedis()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	salons := salonRepo.NewMongoSalonRepo()
	appointments := appointmentRepo.NewMongoAppointmentRepo()
	customers := customerRepo.NewMongoCustomerRepo()

	if err := salons.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure salon indexes: %v", err)
	}
	if err := appointments.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure appointment indexes: %v", err)
	}
	if err := customers.EnsureIndexes(); err != nil {
		logger.Sugar().Fatalf("main: failed to ensure customer indexes: %v", err)
	}

	// services.
	smsDispatcher, demoMode := sms.NewFromConfig()
	if demoMode {
		logger.Sugar().Warn("main: no SMS gateway configured, OTP gate running in demo mode")
	}

	resolver := &schedule.DefaultHoursResolver{Repo: salons}
	availabilityService := &schedule.DefaultAvailabilityService{
		Salons:       salons,
		Appointments: appointments,
		Resolver:     resolver,
	}

	verificationGate := &otp.DefaultVerificationGate{
		Cache:     utils.GetOTPCacheClient(),
		SMS:       smsDispatcher,
		Customers: customers,
		DemoMode:  demoMode,
	}

	notifier := &notification.SMSNotifier{Salons: salons, SMS: smsDispatcher}
	reservationService := booking.NewDefaultReservationService(appointments, salons, notifier)

	sessionService := &booking.DefaultSessionService{
		Cache:        utils.GetSessionCacheClient(),
		Gate:         verificationGate,
		Reservations: reservationService,
		Appointments: appointments,
	}

	// Assemble the handler bundle and register routes.
	handlerBundle := &routes.HandlerBundle{
		Availability: handlers.NewAvailabilityHandler(availabilityService, logger),
		OTP:          handlers.NewOTPHandler(verificationGate),
		Booking:      handlers.NewBookingHandler(reservationService),
		Session:      handlers.NewSessionHandler(sessionService),
	}
	routes.RegisterRoutes(router, handlerBundle)

	utils.StartHealthMonitor(
		[]*redis.Client{utils.GetSessionCacheClient(), utils.GetOTPCacheClient()},
		database.MongoClient,
	)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
