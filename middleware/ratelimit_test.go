package middleware_test

import (
	"testing"
	"time"

	"intervue/middleware"

	"github.com/stretchr/testify/assert"
)

// TestIPRateLimiterEnforcesLimit verifies the per-IP budget within a window.
func TestIPRateLimiterEnforcesLimit(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(3, time.Minute)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"), "fourth request in the window must be rejected")
}

// TestIPRateLimiterIsolatesIPs verifies one client's burst doesn't consume
// another's budget.
func TestIPRateLimiterIsolatesIPs(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, time.Minute)

	assert.True(t, limiter.Allow("10.0.0.1"))
	assert.False(t, limiter.Allow("10.0.0.1"))
	assert.True(t, limiter.Allow("10.0.0.2"))
}

// TestIPRateLimiterWindowExpiry verifies the budget refills once the window
// slides past old requests.
func TestIPRateLimiterWindowExpiry(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 10*time.Millisecond)

	assert.True(t, limiter.Allow("10.0.0.3"))
	assert.False(t, limiter.Allow("10.0.0.3"))

	time.Sleep(15 * time.Millisecond)
	assert.True(t, limiter.Allow("10.0.0.3"))
}
