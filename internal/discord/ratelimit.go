package discord

import (
	"sync"
	"time"
)

// RateLimiter throttles expensive commands per guild using a fixed window,
// so command spam cannot pile up channel creation and database writes.
type RateLimiter struct {
	mu          sync.Mutex
	state       map[string]*window
	window      time.Duration
	maxRequests int
}

type window struct {
	start time.Time
	count int
}

func NewRateLimiter(windowDuration time.Duration, maxRequests int) *RateLimiter {
	return &RateLimiter{
		state:       make(map[string]*window),
		window:      windowDuration,
		maxRequests: maxRequests,
	}
}

// Allow records a request for the guild. When the guild is over its budget
// it returns false along with the time to wait before retrying.
func (r *RateLimiter) Allow(guildID string) (bool, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	w, exists := r.state[guildID]

	if !exists || now.Sub(w.start) > r.window {
		r.state[guildID] = &window{start: now, count: 1}
		return true, 0
	}

	if w.count >= r.maxRequests {
		wait := r.window - now.Sub(w.start)
		if wait < time.Second {
			wait = time.Second
		}
		return false, wait
	}

	w.count++
	return true, 0
}
