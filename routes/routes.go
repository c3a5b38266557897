package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"acacia-hotel-backend/config"
	"acacia-hotel-backend/controllers"
	"acacia-hotel-backend/middleware"
)

func parseCorsOrigins(raw string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{"*"}
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		origin := strings.TrimSpace(part)
		if origin != "" {
			origins = append(origins, origin)
		}
	}
	if len(origins) == 0 {
		return []string{"*"}
	}
	return origins
}

// SetupRouter wires middleware and controllers onto the route tree.
func SetupRouter(
	cfg *config.Config,
	db *gorm.DB,
	logg zerolog.Logger,
	publicLimiter *middleware.IPRateLimiter,
	ac *controllers.AuthController,
	uc *controllers.UserController,
	rc *controllers.RoomController,
	rtc *controllers.RoomTypeController,
	bc *controllers.BookingController,
	pc *controllers.PaymentController,
	cc *controllers.CronController,
) *gin.Engine {
	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(logg))

	origins := parseCorsOrigins(cfg.CORSOrigins)
	allowCredentials := true
	for _, origin := range origins {
		if origin == "*" {
			allowCredentials = false
			break
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: allowCredentials,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	requireAuth := middleware.RequireAuth(db, cfg.JWTSecret)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/signup", middleware.RateLimitByIP(publicLimiter), ac.Signup)
			auth.POST("/login", middleware.RateLimitByIP(publicLimiter), ac.Login)
			auth.GET("/me", requireAuth, ac.Me)
			auth.POST("/change-password", requireAuth, ac.ChangePassword)
		}

		users := api.Group("/users", requireAuth, middleware.RequireCapability(middleware.CapManageUsers))
		{
			users.GET("", uc.List)
			users.POST("", uc.Create)
			users.POST("/:id/approve", uc.Approve)
			users.POST("/:id/reject", uc.Reject)
			users.PATCH("/:id", uc.Update)
			users.DELETE("/:id", uc.Delete)
		}

		rooms := api.Group("/rooms", requireAuth, middleware.RequireCapability(middleware.CapManageRooms))
		{
			rooms.GET("", rc.List)
			rooms.POST("", rc.Create)
			rooms.PATCH("/:id", rc.Update)
			rooms.PUT("/:id", rc.Update)
			rooms.DELETE("/:id", rc.Delete)
		}

		roomTypes := api.Group("/room-types")
		{
			roomTypes.GET("", rtc.List)

			gated := roomTypes.Group("", requireAuth, middleware.RequireCapability(middleware.CapManageRoomTypes))
			gated.POST("", rtc.Create)
			gated.PATCH("/:id", rtc.Update)
			gated.DELETE("/:id", rtc.Delete)
		}

		bookings := api.Group("/bookings")
		{
			// public endpoints, rate limited per IP
			bookings.GET("/available", middleware.RateLimitByIP(publicLimiter), bc.GetAvailable)
			bookings.POST("", middleware.RateLimitByIP(publicLimiter), bc.Create)
			bookings.PATCH("/guest-edit", middleware.RateLimitByIP(publicLimiter), bc.GuestEdit)

			staff := bookings.Group("", requireAuth, middleware.RequireCapability(middleware.CapManageBookings))
			staff.GET("", bc.List)
			staff.GET("/:id", bc.Detail)
			staff.PATCH("/:id", bc.StaffEdit)
			staff.POST("/:id/checkin", bc.CheckIn)
			staff.POST("/:id/checkout", bc.CheckOut)
			staff.POST("/:id/cancel", bc.Cancel)
			staff.GET("/:id/price-check", bc.PriceCheck)
			staff.GET("/:id/payments", pc.ListByBooking)
		}

		payments := api.Group("/payments", requireAuth, middleware.RequireCapability(middleware.CapRecordPayments))
		{
			payments.POST("", pc.Create)
			payments.POST("/stk-push", pc.InitiateSTKPush)
		}

		cron := api.Group("/cron", cc.RequireCronSecret())
		{
			cron.GET("/auto-checkout", cc.AutoCheckout)
			cron.GET("/cancel-expired-bookings", cc.CancelExpiredBookings)
		}
	}

	return r
}
