package controllers

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"acacia-hotel-backend/services"
	"acacia-hotel-backend/utils"
)

// CronController exposes the sweep jobs to the external scheduler. Both
// endpoints are gated by a shared-secret bearer header, never by user auth.
type CronController struct {
	Maintenance *services.MaintenanceService
	Secret      string
}

func NewCronController(maintenance *services.MaintenanceService, secret string) *CronController {
	return &CronController{Maintenance: maintenance, Secret: secret}
}

// RequireCronSecret compares the bearer token against the configured value
// in constant time.
func (ctrl *CronController) RequireCronSecret() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}
		provided := strings.TrimSpace(authHeader[7:])
		if ctrl.Secret == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(ctrl.Secret)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}
		c.Next()
	}
}

func (ctrl *CronController) AutoCheckout(c *gin.Context) {
	report := ctrl.Maintenance.AutoCheckout(time.Now())
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *CronController) CancelExpiredBookings(c *gin.Context) {
	report := ctrl.Maintenance.CancelExpiredPending(time.Now())
	utils.JSONSuccess(c, http.StatusOK, report)
}
