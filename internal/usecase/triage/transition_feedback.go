package triage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"feedpulse/internal/bootstrap/logging"
	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
)

type TransitionInput struct {
	FeedbackID uint64
	To         string
	Actor      string
}

type TransitionResult struct {
	FeedbackID uint64
	Status     string
}

type statusChangedEvent struct {
	FeedbackID uint64 `json:"feedback_id"`
	AppID      uint64 `json:"app_id"`
	Status     string `json:"status"`
	Actor      string `json:"actor"`
	ChangedAt  string `json:"changed_at"`
}

// Transition applies one lifecycle edge as a single conditional update:
// the row changes only if its current status is a valid source for the
// target. Concurrent conflicting transitions therefore serialize at the
// store and the loser gets ErrInvalidTransition, never a silent overwrite.
func (s *Service) Transition(ctx context.Context, input TransitionInput) (TransitionResult, error) {
	if ctx == nil {
		return TransitionResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return TransitionResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return TransitionResult{}, errors.New("feedback repository is required")
	}

	to, err := feedback.ParseStatus(input.To)
	if err != nil {
		return TransitionResult{}, err
	}

	sources := feedback.ValidSources(to)
	if len(sources) == 0 {
		// No edge leads here (e.g. back to pending).
		return TransitionResult{}, fmt.Errorf("%w: no state may move to %q", feedback.ErrInvalidTransition, to)
	}

	fromStatuses := make([]string, 0, len(sources))
	for _, src := range sources {
		fromStatuses = append(fromStatuses, src.String())
	}

	updated, err := s.repo.UpdateFeedbackStatus(ctx, input.FeedbackID, fromStatuses, to.String())
	if err != nil {
		return TransitionResult{}, errs.Wrap(err, "apply status transition")
	}
	if !updated {
		// Distinguish a missing record from a disallowed edge.
		record, getErr := s.repo.GetFeedback(ctx, input.FeedbackID)
		if getErr != nil {
			return TransitionResult{}, getErr
		}
		return TransitionResult{}, fmt.Errorf("%w: %s -> %s", feedback.ErrInvalidTransition, record.Status, to)
	}

	record, err := s.repo.GetFeedback(ctx, input.FeedbackID)
	if err != nil {
		return TransitionResult{}, errs.Wrap(err, "reload feedback after transition")
	}

	s.publish(ctx, "feedback.status_changed", statusChangedEvent{
		FeedbackID: record.FeedbackID,
		AppID:      record.AppID,
		Status:     record.Status,
		Actor:      strings.TrimSpace(input.Actor),
		ChangedAt:  feedback.NowUTC(),
	})

	return TransitionResult{
		FeedbackID: record.FeedbackID,
		Status:     record.Status,
	}, nil
}

func (s *Service) publish(ctx context.Context, subject string, payload any) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, subject, payload); err != nil {
		logging.Warn(ctx, "event publish failed",
			slog.String("subject", subject),
			slog.Any("err", errs.Loggable(err)))
	}
}
