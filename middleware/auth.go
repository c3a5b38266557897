package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"acacia-hotel-backend/models"
	"acacia-hotel-backend/utils"
)

const (
	CtxUser   = "user"
	CtxClaims = "claims"

	cookieToken = "token"
)

// Capability names the operations a role may perform. Every protected route
// declares exactly one required capability; RoleAllows is the single place
// role checks happen.
type Capability string

const (
	CapManageUsers     Capability = "users.manage"
	CapViewDashboard   Capability = "dashboard.view"
	CapManageRooms     Capability = "rooms.manage"
	CapManageRoomTypes Capability = "roomTypes.manage"
	CapManageBookings  Capability = "bookings.manage"
	CapRecordPayments  Capability = "payments.record"
)

var operationalCaps = []Capability{
	CapManageRooms,
	CapManageRoomTypes,
	CapManageBookings,
	CapRecordPayments,
}

var roleCapabilities = map[string][]Capability{
	models.RoleAdmin: append([]Capability{CapManageUsers, CapViewDashboard}, operationalCaps...),
	// MANAGER and STAFF share operational access but are barred from
	// dashboard and user management.
	models.RoleManager: operationalCaps,
	models.RoleStaff:   operationalCaps,
}

// RoleAllows reports whether the role grants the capability.
func RoleAllows(role string, cap Capability) bool {
	for _, c := range roleCapabilities[role] {
		if c == cap {
			return true
		}
	}
	return false
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if raw, err := c.Cookie(cookieToken); err == nil {
		return raw
	}
	return ""
}

// RequireAuth validates the bearer token (or "token" cookie), loads the user
// and injects it into the context. All verification failures look the same
// to the caller.
func RequireAuth(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}

		claims, err := utils.VerifyToken(jwtSecret, raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}

		var user models.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}
		if user.Status != models.UserActive {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}

		c.Set(CtxUser, user)
		c.Set(CtxClaims, claims)
		c.Next()
	}
}

// RequireCapability gates a route on the capability table. Must run after
// RequireAuth.
func RequireCapability(cap Capability) gin.HandlerFunc {
	return func(c *gin.Context) {
		v, ok := c.Get(CtxUser)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "unauthenticated"})
			return
		}
		user := v.(models.User)
		if !RoleAllows(user.Role, cap) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"success": false, "error": "role " + user.Role + " is not permitted to perform this action"})
			return
		}
		c.Next()
	}
}

// CurrentUser fetches the authenticated user from the context.
func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(CtxUser)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}
