package middleware

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestIPRateLimiter_Burst(t *testing.T) {
	limiter := NewIPRateLimiter(1, 2, zap.NewNop())
	router := protectedRouter(t, limiter.Handler())

	assert.Equal(t, http.StatusOK, doGet(router, "").Code)
	assert.Equal(t, http.StatusOK, doGet(router, "").Code)

	w := doGet(router, "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMITED")
}

func TestIPRateLimiter_EvictIdle(t *testing.T) {
	limiter := NewIPRateLimiter(60, 1, zap.NewNop())
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter.now = func() time.Time { return current }

	limiter.limiter("10.0.0.1")
	current = current.Add(visitorTTL + time.Second)
	limiter.limiter("10.0.0.2")

	limiter.evictIdle()
	assert.Len(t, limiter.visitors, 1)
	assert.Contains(t, limiter.visitors, "10.0.0.2")
}
