package triage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

// ErrInvalidFilter marks a malformed filter value (unknown status, rating
// outside any plausible bound). Callers map it to a bad-request response.
var ErrInvalidFilter = errors.New("invalid filter")

type ListInput struct {
	AppID       uint64
	Status      string
	Category    string
	Rating      *int
	AppVersion  string
	OSName      string
	NewestFirst bool
	Limit       int
	Offset      int
}

func (s *Service) List(ctx context.Context, input ListInput) ([]ports.FeedbackRecord, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("feedback repository is required")
	}

	filter := ports.FeedbackFilter{
		AppID:       input.AppID,
		Category:    strings.ToLower(strings.TrimSpace(input.Category)),
		Rating:      input.Rating,
		AppVersion:  strings.TrimSpace(input.AppVersion),
		OSName:      strings.TrimSpace(input.OSName),
		NewestFirst: input.NewestFirst,
		Limit:       input.Limit,
		Offset:      input.Offset,
	}

	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := feedback.ParseStatus(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: status %q", ErrInvalidFilter, raw)
		}
		filter.Status = status.String()
	}

	records, err := s.repo.ListFeedback(ctx, filter)
	if err != nil {
		return nil, errs.Wrap(err, "list feedback")
	}
	return records, nil
}

func (s *Service) Get(ctx context.Context, feedbackID uint64) (ports.FeedbackRecord, error) {
	if ctx == nil {
		return ports.FeedbackRecord{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.FeedbackRecord{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return ports.FeedbackRecord{}, errors.New("feedback repository is required")
	}

	record, err := s.repo.GetFeedback(ctx, feedbackID)
	if err != nil {
		return ports.FeedbackRecord{}, err
	}
	return record, nil
}
