package triage

import (
	"context"
	"errors"

	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

// Delete removes a record outright. This is an administrative escape hatch
// outside the ingestion contract; normal triage keeps records and moves
// them to a terminal status instead.
func (s *Service) Delete(ctx context.Context, feedbackID uint64) error {
	if ctx == nil {
		return errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return errors.New("feedback repository is required")
	}

	deleted, err := s.repo.DeleteFeedback(ctx, feedbackID)
	if err != nil {
		return errs.Wrap(err, "delete feedback")
	}
	if !deleted {
		return ports.ErrFeedbackNotFound
	}
	return nil
}
