package discord

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsUpToBudget(t *testing.T) {
	limiter := NewRateLimiter(time.Minute, 2)

	ok, _ := limiter.Allow("guild-1")
	assert.True(t, ok)

	ok, _ = limiter.Allow("guild-1")
	assert.True(t, ok)

	ok, wait := limiter.Allow("guild-1")
	assert.False(t, ok)
	assert.Greater(t, wait, time.Duration(0))

	// Other guilds have their own window.
	ok, _ = limiter.Allow("guild-2")
	assert.True(t, ok)
}

func TestRateLimiterWindowResets(t *testing.T) {
	limiter := NewRateLimiter(30*time.Millisecond, 1)

	ok, _ := limiter.Allow("guild-1")
	assert.True(t, ok)

	ok, _ = limiter.Allow("guild-1")
	assert.False(t, ok)

	time.Sleep(50 * time.Millisecond)

	ok, _ = limiter.Allow("guild-1")
	assert.True(t, ok)
}
