package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"acacia-hotel-backend/config"
	"acacia-hotel-backend/controllers"
	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/routes"
	"acacia-hotel-backend/services"
)

func main() {
	logg := zerolog.New(os.Stdout).With().Timestamp().Logger()

	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logg.Warn().Msg(".env not found or couldn't load it; continuing with environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Fatal().Err(err).Msg("invalid configuration")
	}

	db, err := config.ConnectDatabase(cfg, logg)
	if err != nil {
		logg.Fatal().Err(err).Msg("database connect failed")
	}
	logg.Info().Msg("database connection established and migrations applied")

	// Initialize services
	pricingService := services.NewPricingService()
	availabilityService := services.NewAvailabilityService(db)
	activityService := services.NewActivityService(db, logg)
	bookingService := services.NewBookingService(db, availabilityService, pricingService, logg)
	paymentService := services.NewPaymentService(db, logg)
	maintenanceService := services.NewMaintenanceService(db, logg)
	mpesaService := services.NewMpesaService(cfg.Mpesa, logg)

	// Initialize controllers
	authController := controllers.NewAuthController(db, cfg.JWTSecret, activityService)
	userController := controllers.NewUserController(db, activityService)
	roomController := controllers.NewRoomController(db, activityService)
	roomTypeController := controllers.NewRoomTypeController(db, activityService)
	bookingController := controllers.NewBookingController(bookingService, availabilityService, pricingService, activityService)
	paymentController := controllers.NewPaymentController(paymentService, mpesaService, bookingService, activityService)
	cronController := controllers.NewCronController(maintenanceService, cfg.CronSecret)

	publicLimiter := middleware.NewIPRateLimiter(cfg.RateLimitPerMin, cfg.RateLimitBurst, 5*time.Minute)
	defer publicLimiter.Stop()

	router := routes.SetupRouter(
		cfg, db, logg,
		publicLimiter,
		authController,
		userController,
		roomController,
		roomTypeController,
		bookingController,
		paymentController,
		cronController,
	)

	addr := ":" + cfg.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logg.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	// Wait for interrupt, then shut down with a deadline
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logg.Warn().Msg("shutdown signal received, shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Fatal().Err(err).Msg("server forced to shutdown")
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	logg.Info().Msg("server stopped gracefully")
}
