package ingest

import (
	"errors"
	"fmt"
	"time"

	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/ports"
)

// ErrUnauthorized covers every credential failure: absent, unknown,
// rotated-out or inactive. Deliberately carries no detail so callers cannot
// enumerate credentials.
var ErrUnauthorized = errors.New("invalid or missing credential")

// RateLimitedError is returned when an application (or source address) is
// over its submission bound.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// Limiters groups the per-application bound with the optional per-address
// one.
type Limiters struct {
	App ports.RateLimiter
	IP  ports.RateLimiter
}

type Service struct {
	apps      ports.ApplicationRepository
	repo      ports.FeedbackRepository
	uow       ports.UnitOfWork
	limiters  Limiters
	publisher ports.EventPublisher
	policy    feedback.Policy
}

// NewService wires the ingestion path. The policy is injected here so tests
// can run against deterministic bounds.
func NewService(
	apps ports.ApplicationRepository,
	repo ports.FeedbackRepository,
	uow ports.UnitOfWork,
	limiters Limiters,
	publisher ports.EventPublisher,
	policy feedback.Policy,
) *Service {
	return &Service{
		apps:      apps,
		repo:      repo,
		uow:       uow,
		limiters:  limiters,
		publisher: publisher,
		policy:    policy,
	}
}
