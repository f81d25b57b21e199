package signal

import (
	"sync"
	"time"
)

// rateLimiter is a per-connection fixed-window message limiter. Events over
// the limit are dropped, not fatal; an abusive burst only hurts the sender.
type rateLimiter struct {
	mu          sync.Mutex
	limit       int
	interval    time.Duration
	windowStart time.Time
	count       int
}

func newRateLimiter(limit int, interval time.Duration) *rateLimiter {
	return &rateLimiter{limit: limit, interval: interval, windowStart: time.Now()}
}

func (rl *rateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	if now.Sub(rl.windowStart) > rl.interval {
		rl.windowStart = now
		rl.count = 0
	}
	if rl.count >= rl.limit {
		return false
	}
	rl.count++
	return true
}
