package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"

	"feedpulse/internal/bootstrap/logging"
	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

// ErrMalformedBody marks a payload that is not well-formed JSON. It is only
// reachable after the credential and rate checks have passed.
var ErrMalformedBody = errors.New("malformed request body")

type SubmitInput struct {
	// Credential is the value of the X-API-Key header; the owning
	// application is derived from it, never from the body.
	Credential string
	// RemoteAddr is the originating network address, used only for the
	// optional secondary rate bound.
	RemoteAddr string
	// Body is the raw JSON payload. Parsing happens here so the checks
	// run in contract order: credential, rate bound, body shape, fields.
	Body []byte
}

type submissionPayload struct {
	EndUserID string          `json:"end_user_id"`
	Rating    *int            `json:"rating"`
	Category  string          `json:"category"`
	Content   string          `json:"content"`
	Device    json.RawMessage `json:"device"`
	Meta      json.RawMessage `json:"meta"`
}

type SubmitResult struct {
	FeedbackID uint64
	Status     string
	CreatedAt  string
}

type feedbackCreatedEvent struct {
	FeedbackID uint64 `json:"feedback_id"`
	AppID      uint64 `json:"app_id"`
	AppSlug    string `json:"app_slug"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

// Submit authenticates, rate-limits, validates and persists one feedback
// submission. Nothing is written on any rejection; each accepted call
// produces a new record (no dedup of repeated submissions).
func (s *Service) Submit(ctx context.Context, input SubmitInput) (SubmitResult, error) {
	if ctx == nil {
		return SubmitResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return SubmitResult{}, errs.Wrap(err, "check context")
	}
	if s.apps == nil || s.repo == nil || s.uow == nil {
		return SubmitResult{}, errors.New("ingest service is not fully wired")
	}

	credential := strings.TrimSpace(input.Credential)
	if credential == "" {
		return SubmitResult{}, ErrUnauthorized
	}

	app, err := s.apps.FindActiveByCredentialHash(ctx, feedback.HashCredential(credential))
	if err != nil {
		if errors.Is(err, ports.ErrApplicationNotFound) {
			return SubmitResult{}, ErrUnauthorized
		}
		return SubmitResult{}, errs.Wrap(err, "resolve credential")
	}

	// After auth so the bound attributes to the application, before body
	// validation so limited requests stay cheap.
	if err := s.checkRateLimits(app.AppID, input.RemoteAddr); err != nil {
		return SubmitResult{}, err
	}

	var payload submissionPayload
	if len(input.Body) == 0 {
		return SubmitResult{}, ErrMalformedBody
	}
	if err := json.Unmarshal(input.Body, &payload); err != nil {
		return SubmitResult{}, ErrMalformedBody
	}

	sub := feedback.Submission{
		EndUserID: strings.TrimSpace(payload.EndUserID),
		Rating:    payload.Rating,
		Category:  strings.ToLower(strings.TrimSpace(payload.Category)),
		Content:   payload.Content,
		Device:    payload.Device,
		Meta:      payload.Meta,
	}
	if err := feedback.ValidateSubmission(s.policy, sub); err != nil {
		return SubmitResult{}, err
	}

	appVersion, osName := feedback.ExtractDeviceFields(sub.Device)

	create := ports.FeedbackCreate{
		AppID:      app.AppID,
		EndUserID:  optional(sub.EndUserID),
		Rating:     sub.Rating,
		Category:   optional(sub.Category),
		Content:    optional(sub.Content),
		DeviceJSON: feedback.NormalizeMetadata(sub.Device),
		MetaJSON:   feedback.NormalizeMetadata(sub.Meta),
		AppVersion: appVersion,
		OSName:     osName,
		Status:     feedback.StatusPending.String(),
		CreatedAt:  feedback.NowUTC(),
	}

	var record ports.FeedbackRecord
	if err := s.uow.WithTx(ctx, func(txCtx context.Context) error {
		created, createErr := s.repo.CreateFeedback(txCtx, create)
		if createErr != nil {
			return createErr
		}
		record = created
		return nil
	}); err != nil {
		return SubmitResult{}, errs.Wrap(err, "persist feedback")
	}

	s.publish(ctx, "feedback.created", feedbackCreatedEvent{
		FeedbackID: record.FeedbackID,
		AppID:      app.AppID,
		AppSlug:    app.Slug,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
	})

	return SubmitResult{
		FeedbackID: record.FeedbackID,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
	}, nil
}

func (s *Service) checkRateLimits(appID uint64, remoteAddr string) error {
	if s.limiters.App != nil {
		if ok, retryAfter := s.limiters.App.Allow(appKey(appID)); !ok {
			return &RateLimitedError{RetryAfter: retryAfter}
		}
	}
	if s.limiters.IP != nil {
		if addr := strings.TrimSpace(remoteAddr); addr != "" {
			if ok, retryAfter := s.limiters.IP.Allow("ip:" + addr); !ok {
				return &RateLimitedError{RetryAfter: retryAfter}
			}
		}
	}
	return nil
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

func appKey(appID uint64) string {
	return "app:" + strconv.FormatUint(appID, 10)
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
