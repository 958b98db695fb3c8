package apps

import (
	"errors"
	"regexp"

	"feedpulse/internal/ports"
)

var (
	ErrNameRequired = errors.New("application name is required")
	ErrInvalidSlug  = errors.New("slug must be lowercase letters, digits and single hyphens")
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// credentialAttempts bounds the regenerate-on-collision loop. A SHA-256
// digest collision of two random UUID keys is negligible, so more than one
// retry essentially never happens.
const credentialAttempts = 5

// Service owns the application registry and credential lifecycle. It is an
// administrative capability and is never reachable with an ingestion
// credential.
type Service struct {
	repo ports.ApplicationRepository
}

func NewService(repo ports.ApplicationRepository) *Service {
	return &Service{repo: repo}
}
