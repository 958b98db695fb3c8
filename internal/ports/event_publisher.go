package ports

import "context"

// EventPublisher fans out domain events (feedback created, status changed)
// to interested consumers such as a live triage inbox. Publishing is
// best-effort; callers must not fail a request on publish errors.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, payload any) error
}
