package ingest

import (
	"os"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
)

// The ingest policy ships as a TOML profile so operators can tune bounds
// per deployment without a code change. Absent file or fields fall back to
// the built-in defaults.

type policyLimitsConfig struct {
	RatingMin        *int `toml:"rating_min"`
	RatingMax        *int `toml:"rating_max"`
	MaxContentLen    *int `toml:"max_content_len"`
	MaxMetadataBytes *int `toml:"max_metadata_bytes"`
}

type policyRateLimitConfig struct {
	Max    *int   `toml:"max"`
	Window string `toml:"window"`
}

type policyProfile struct {
	Categories []string              `toml:"categories"`
	Limits     policyLimitsConfig    `toml:"limits"`
	RateLimit  policyRateLimitConfig `toml:"rate_limit"`
	PerIP      policyRateLimitConfig `toml:"per_ip_rate_limit"`
}

// LoadPolicy reads the TOML profile at path and merges it over the default
// policy. Empty path returns the defaults unchanged.
func LoadPolicy(path string) (feedback.Policy, error) {
	policy := feedback.DefaultPolicy()

	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return policy, nil
	}

	raw, err := os.ReadFile(trimmed)
	if err != nil {
		return feedback.Policy{}, errs.Wrapf(err, "read policy profile %q", trimmed)
	}

	var profile policyProfile
	if err := toml.Unmarshal(raw, &profile); err != nil {
		return feedback.Policy{}, errs.Wrapf(err, "parse policy profile %q", trimmed)
	}

	if len(profile.Categories) > 0 {
		policy.Categories = profile.Categories
	}
	if profile.Limits.RatingMin != nil {
		policy.RatingMin = *profile.Limits.RatingMin
	}
	if profile.Limits.RatingMax != nil {
		policy.RatingMax = *profile.Limits.RatingMax
	}
	if profile.Limits.MaxContentLen != nil {
		policy.MaxContentLen = *profile.Limits.MaxContentLen
	}
	if profile.Limits.MaxMetadataBytes != nil {
		policy.MaxMetadataBytes = *profile.Limits.MaxMetadataBytes
	}

	appLimit, err := mergeRateLimit(policy.RateLimit, profile.RateLimit)
	if err != nil {
		return feedback.Policy{}, errs.Wrap(err, "policy rate_limit")
	}
	policy.RateLimit = appLimit

	ipLimit, err := mergeRateLimit(policy.PerIPRateLimit, profile.PerIP)
	if err != nil {
		return feedback.Policy{}, errs.Wrap(err, "policy per_ip_rate_limit")
	}
	policy.PerIPRateLimit = ipLimit

	if err := policy.Validate(); err != nil {
		return feedback.Policy{}, errs.Wrapf(err, "validate policy profile %q", trimmed)
	}
	return policy, nil
}

func mergeRateLimit(base feedback.RateLimitPolicy, cfg policyRateLimitConfig) (feedback.RateLimitPolicy, error) {
	out := base
	if cfg.Max != nil {
		out.Max = *cfg.Max
	}
	if window := strings.TrimSpace(cfg.Window); window != "" {
		parsed, err := time.ParseDuration(window)
		if err != nil {
			return feedback.RateLimitPolicy{}, errs.Wrapf(err, "parse window %q", window)
		}
		out.Window = parsed
	}
	return out, nil
}
