package ratelimit

import (
	"testing"
	"time"
)

func TestKeyedLimiterEnforcesThreshold(t *testing.T) {
	t.Parallel()

	limiter := NewKeyedLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		if ok, _ := limiter.Allow("app:1"); !ok {
			t.Fatalf("request %d rejected under threshold", i+1)
		}
	}

	ok, retryAfter := limiter.Allow("app:1")
	if ok {
		t.Fatal("request over threshold allowed")
	}
	if retryAfter <= 0 {
		t.Fatalf("retry-after = %s, want positive", retryAfter)
	}
}

func TestKeyedLimiterKeysAreIndependent(t *testing.T) {
	t.Parallel()

	limiter := NewKeyedLimiter(1, time.Minute)

	if ok, _ := limiter.Allow("app:1"); !ok {
		t.Fatal("first key first request rejected")
	}
	if ok, _ := limiter.Allow("app:1"); ok {
		t.Fatal("first key second request allowed")
	}
	if ok, _ := limiter.Allow("app:2"); !ok {
		t.Fatal("second key rejected by first key's bound")
	}
}

func TestKeyedLimiterRecoversAfterWindow(t *testing.T) {
	t.Parallel()

	limiter := NewKeyedLimiter(1, 50*time.Millisecond)

	if ok, _ := limiter.Allow("app:1"); !ok {
		t.Fatal("first request rejected")
	}
	if ok, _ := limiter.Allow("app:1"); ok {
		t.Fatal("second request allowed inside window")
	}

	time.Sleep(60 * time.Millisecond)

	if ok, _ := limiter.Allow("app:1"); !ok {
		t.Fatal("request after window elapsed rejected")
	}
}

func TestKeyedLimiterRejectionConsumesNoCapacity(t *testing.T) {
	t.Parallel()

	limiter := NewKeyedLimiter(1, 50*time.Millisecond)

	limiter.Allow("app:1")
	// Hammer while limited; none of these may push the recovery point out.
	for i := 0; i < 10; i++ {
		limiter.Allow("app:1")
	}

	time.Sleep(60 * time.Millisecond)

	if ok, _ := limiter.Allow("app:1"); !ok {
		t.Fatal("rejected requests consumed capacity")
	}
}

func TestKeyedLimiterDisabled(t *testing.T) {
	t.Parallel()

	limiter := NewKeyedLimiter(0, time.Minute)
	for i := 0; i < 100; i++ {
		if ok, _ := limiter.Allow("app:1"); !ok {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}
