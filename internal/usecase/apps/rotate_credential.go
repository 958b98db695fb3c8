package apps

import (
	"context"
	"errors"

	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

type RotateResult struct {
	Application ports.Application
	Credential  string
}

// RotateCredential reissues an application's API key. The swap is a single
// UPDATE, so the old key stops authenticating the moment it commits; there
// is deliberately no grace-period overlap. Persisted feedback is unaffected.
func (s *Service) RotateCredential(ctx context.Context, appID uint64) (RotateResult, error) {
	if ctx == nil {
		return RotateResult{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return RotateResult{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return RotateResult{}, errors.New("application repository is required")
	}

	var lastErr error
	for attempt := 0; attempt < credentialAttempts; attempt++ {
		cred := feedback.NewCredential()

		err := s.repo.UpdateCredential(ctx, appID, cred.Hash, cred.Hint, feedback.NowUTC())
		if err != nil {
			if errors.Is(err, ports.ErrDuplicateCredential) {
				lastErr = err
				continue
			}
			return RotateResult{}, err
		}

		app, getErr := s.repo.GetApplication(ctx, appID)
		if getErr != nil {
			return RotateResult{}, errs.Wrap(getErr, "reload application after rotation")
		}

		return RotateResult{
			Application: app,
			Credential:  cred.Plaintext,
		}, nil
	}

	return RotateResult{}, errs.Wrap(lastErr, "generate unique credential")
}
