package apps

import (
	"context"
	"errors"
	"strings"

	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

type CreateInput struct {
	Name       string
	Slug       string
	OwnerEmail string
}

// CreateResult carries the one-time credential reveal. The plaintext is not
// stored and cannot be retrieved again; rotation is the only recovery.
type CreateResult struct {
	Application ports.Application
	Credential  string
}

func (s *Service) Create(ctx context.Context, input CreateInput) (CreateResult, error) {
	if ctx == nil {
		return CreateResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return CreateResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return CreateResult{}, errors.New("application repository is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CreateResult{}, ErrNameRequired
	}

	slug := strings.ToLower(strings.TrimSpace(input.Slug))
	if !slugPattern.MatchString(slug) {
		return CreateResult{}, ErrInvalidSlug
	}

	var owner *string
	if email := strings.TrimSpace(input.OwnerEmail); email != "" {
		owner = &email
	}

	var lastErr error
	for attempt := 0; attempt < credentialAttempts; attempt++ {
		cred := feedback.NewCredential()

		created, err := s.repo.CreateApplication(ctx, ports.Application{
			Name:           name,
			Slug:           slug,
			CredentialHash: cred.Hash,
			CredentialHint: cred.Hint,
			OwnerEmail:     owner,
			IsActive:       true,
			CreatedAt:      feedback.NowUTC(),
		})
		if err != nil {
			if errors.Is(err, ports.ErrDuplicateCredential) {
				lastErr = err
				continue
			}
			return CreateResult{}, err
		}

		return CreateResult{
			Application: created,
			Credential:  cred.Plaintext,
		}, nil
	}

	return CreateResult{}, errs.Wrap(lastErr, "generate unique credential")
}
