package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"feedpulse/internal/ports"
)

// KeyedLimiter keeps one token bucket per key. Bucket capacity is the
// configured threshold; refill spreads the threshold over the window, so
// sustained traffic converges on max-per-window while short bursts up to the
// threshold pass.
type KeyedLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

var _ ports.RateLimiter = (*KeyedLimiter)(nil)

// NewKeyedLimiter builds a limiter admitting max requests per window per
// key. max <= 0 or window <= 0 disables limiting.
func NewKeyedLimiter(max int, window time.Duration) *KeyedLimiter {
	l := &KeyedLimiter{
		limiters: make(map[string]*rate.Limiter),
	}
	if max > 0 && window > 0 {
		l.limit = rate.Limit(float64(max) / window.Seconds())
		l.burst = max
	} else {
		l.limit = rate.Inf
		l.burst = 1
	}
	return l
}

func (l *KeyedLimiter) Allow(key string) (bool, time.Duration) {
	if l.limit == rate.Inf {
		return true, 0
	}

	l.mu.Lock()
	lim, ok := l.limiters[key]
	if !ok {
		lim = rate.NewLimiter(l.limit, l.burst)
		l.limiters[key] = lim
	}
	l.mu.Unlock()

	// Reserve-then-cancel keeps the check-and-increment atomic: a denied
	// request gives its token back and consumes no capacity.
	r := lim.Reserve()
	if !r.OK() {
		return false, time.Duration(float64(time.Second) / float64(l.limit))
	}
	if delay := r.Delay(); delay > 0 {
		r.Cancel()
		return false, delay
	}
	return true, 0
}
