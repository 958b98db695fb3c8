package ports

import (
	"context"
	"errors"
)

var ErrFeedbackNotFound = errors.New("feedback record not found")

type FeedbackRecord struct {
	FeedbackID uint64
	AppID      uint64
	EndUserID  *string
	Rating     *int
	Category   *string
	Content    *string
	DeviceJSON string
	MetaJSON   string
	AppVersion string
	OSName     string
	Status     string
	CreatedAt  string
}

type FeedbackCreate struct {
	AppID      uint64
	EndUserID  *string
	Rating     *int
	Category   *string
	Content    *string
	DeviceJSON string
	MetaJSON   string
	AppVersion string
	OSName     string
	Status     string
	CreatedAt  string
}

// FeedbackFilter matches any combination of fields; zero values mean
// "don't filter". NewestFirst orders by creation descending (the inbox
// default); otherwise rows come back in stable insertion order.
type FeedbackFilter struct {
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

type FeedbackReadRepository interface {
	ListFeedback(ctx context.Context, filter FeedbackFilter) ([]FeedbackRecord, error)
	GetFeedback(ctx context.Context, feedbackID uint64) (FeedbackRecord, error)
}

type FeedbackRepository interface {
	FeedbackReadRepository
	CreateFeedback(ctx context.Context, input FeedbackCreate) (FeedbackRecord, error)
	// UpdateFeedbackStatus is a single conditional UPDATE: the row changes
	// only when its current status is in fromStatuses. Returns false when
	// no row matched (missing record or disallowed source state).
	UpdateFeedbackStatus(ctx context.Context, feedbackID uint64, fromStatuses []string, to string) (bool, error)
	DeleteFeedback(ctx context.Context, feedbackID uint64) (bool, error)
}
