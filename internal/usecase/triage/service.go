package triage

import (
	"feedpulse/internal/ports"
)

// Service is the administrative triage surface over persisted feedback:
// list/filter, fetch, status transitions and explicit removal. It never
// creates records; that is the ingestion path's job.
type Service struct {
	repo      ports.FeedbackRepository
	publisher ports.EventPublisher
}

func NewService(repo ports.FeedbackRepository, publisher ports.EventPublisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
	}
}
