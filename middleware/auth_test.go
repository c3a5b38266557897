package middleware_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"acacia-hotel-backend/middleware"
	"acacia-hotel-backend/models"
)

func TestRoleAllows(t *testing.T) {
	operational := []middleware.Capability{
		middleware.CapManageRooms,
		middleware.CapManageRoomTypes,
		middleware.CapManageBookings,
		middleware.CapRecordPayments,
	}
	adminOnly := []middleware.Capability{
		middleware.CapManageUsers,
		middleware.CapViewDashboard,
	}

	t.Run("admin holds every capability", func(t *testing.T) {
		for _, cap := range append(append([]middleware.Capability{}, operational...), adminOnly...) {
			assert.True(t, middleware.RoleAllows(models.RoleAdmin, cap), string(cap))
		}
	})

	t.Run("manager and staff hold operational capabilities only", func(t *testing.T) {
		for _, role := range []string{models.RoleManager, models.RoleStaff} {
			for _, cap := range operational {
				assert.True(t, middleware.RoleAllows(role, cap), "%s should allow %s", role, cap)
			}
			for _, cap := range adminOnly {
				assert.False(t, middleware.RoleAllows(role, cap), "%s should deny %s", role, cap)
			}
		}
	})

	t.Run("unknown role holds nothing", func(t *testing.T) {
		for _, cap := range append(append([]middleware.Capability{}, operational...), adminOnly...) {
			assert.False(t, middleware.RoleAllows("GUEST", cap))
			assert.False(t, middleware.RoleAllows("", cap))
		}
	})
}
