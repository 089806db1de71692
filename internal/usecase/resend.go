package usecase

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// emailLimiter holds a rate limiter and the last time it was seen.
type emailLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// resendLimiter throttles passcode requests per email address.
type resendLimiter struct {
	mu       sync.Mutex
	limiters map[string]*emailLimiter
	rate     rate.Limit
	burst    int
}

func newResendLimiter(r rate.Limit, burst int) *resendLimiter {
	rl := &resendLimiter{
		limiters: make(map[string]*emailLimiter),
		rate:     r,
		burst:    burst,
	}
	go rl.cleanupLoop()
	return rl
}

// allow reports whether another passcode may be requested for the email.
func (rl *resendLimiter) allow(email string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	l, exists := rl.limiters[email]
	if !exists {
		l = &emailLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[email] = l
	}
	l.lastSeen = time.Now()
	return l.limiter.Allow()
}

// cleanupLoop removes stale entries every 3 minutes.
func (rl *resendLimiter) cleanupLoop() {
	ticker := time.NewTicker(3 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		for email, l := range rl.limiters {
			if time.Since(l.lastSeen) > 10*time.Minute {
				delete(rl.limiters, email)
			}
		}
		rl.mu.Unlock()
	}
}
