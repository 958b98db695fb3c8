package apps

import (
	"context"
	"errors"

	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
)

func (s *Service) List(ctx context.Context) ([]ports.Application, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return nil, errors.New("application repository is required")
	}

	return s.repo.ListApplications(ctx)
}

func (s *Service) Get(ctx context.Context, appID uint64) (ports.Application, error) {
	if ctx == nil {
		return ports.Application{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return ports.Application{}, errs.Wrap(err, "check context")
	}
	if s.repo == nil {
		return ports.Application{}, errors.New("application repository is required")
	}

	return s.repo.GetApplication(ctx, appID)
}
