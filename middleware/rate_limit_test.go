package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"acacia-hotel-backend/middleware"
)

func rateLimitedRouter(rl *middleware.IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/", middleware.RateLimitByIP(rl), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func TestRateLimitByIP(t *testing.T) {
	// 1 req/min with a burst of 2: the bucket holds two tokens and refills
	// far too slowly for a third request to pass within the test
	rl := middleware.NewIPRateLimiter(1, 2, time.Minute)
	defer rl.Stop()
	r := rateLimitedRouter(rl)

	do := func(ip string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// buckets are per IP
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestRateLimiterStopIsIdempotent(t *testing.T) {
	rl := middleware.NewIPRateLimiter(30, 10, time.Minute)
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
