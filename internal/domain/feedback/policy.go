package feedback

import (
	"errors"
	"strings"
	"time"
)

// RateLimitPolicy bounds accepted submissions per key over a window.
// Max <= 0 disables the bound.
type RateLimitPolicy struct {
	Max    int
	Window time.Duration
}

func (p RateLimitPolicy) Enabled() bool {
	return p.Max > 0 && p.Window > 0
}

// Policy is the injected ingest policy: accepted categories, rating bounds,
// size bounds and rate limits. It is constructed once at bootstrap and passed
// into the ingestion service, never read from global state.
type Policy struct {
	Categories       []string
	RatingMin        int
	RatingMax        int
	MaxContentLen    int
	MaxMetadataBytes int
	RateLimit        RateLimitPolicy
	PerIPRateLimit   RateLimitPolicy
}

func DefaultPolicy() Policy {
	return Policy{
		Categories:       []string{"bug", "feature", "general", "ui-ux"},
		RatingMin:        1,
		RatingMax:        5,
		MaxContentLen:    4000,
		MaxMetadataBytes: 8192,
		RateLimit: RateLimitPolicy{
			Max:    60,
			Window: time.Minute,
		},
	}
}

func (p Policy) Validate() error {
	if len(p.Categories) == 0 {
		return errors.New("policy requires at least one category")
	}
	for _, c := range p.Categories {
		if strings.TrimSpace(c) == "" {
			return errors.New("policy categories must be non-empty")
		}
	}
	if p.RatingMin < 0 || p.RatingMax < p.RatingMin {
		return errors.New("policy rating bounds are invalid")
	}
	if p.MaxContentLen <= 0 {
		return errors.New("policy max content length must be positive")
	}
	if p.MaxMetadataBytes <= 0 {
		return errors.New("policy max metadata bytes must be positive")
	}
	if p.RateLimit.Max > 0 && p.RateLimit.Window <= 0 {
		return errors.New("policy rate limit window must be positive")
	}
	if p.PerIPRateLimit.Max > 0 && p.PerIPRateLimit.Window <= 0 {
		return errors.New("policy per-ip rate limit window must be positive")
	}
	return nil
}

// AllowsCategory matches case-insensitively against the configured set.
func (p Policy) AllowsCategory(category string) bool {
	needle := strings.ToLower(strings.TrimSpace(category))
	for _, c := range p.Categories {
		if strings.ToLower(strings.TrimSpace(c)) == needle {
			return true
		}
	}
	return false
}
