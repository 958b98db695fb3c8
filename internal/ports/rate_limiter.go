package ports

import "time"

// RateLimiter bounds request rates per key. Allow is an atomic
// check-and-increment: a rejected call consumes no capacity, so two
// concurrent callers cannot both pass a boundary that admits only one.
type RateLimiter interface {
	// Allow returns false with a retry-after hint when the key is over
	// its bound.
	Allow(key string) (ok bool, retryAfter time.Duration)
}
