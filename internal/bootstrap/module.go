package bootstrap

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"feedpulse/internal/bootstrap/config"
	"feedpulse/internal/bootstrap/database"
	"feedpulse/internal/bootstrap/logging"
	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/infrastructure/events"
	sqliterepo "feedpulse/internal/infrastructure/persistence/sqlite/repository"
	sqliteuow "feedpulse/internal/infrastructure/persistence/sqlite/uow"
	"feedpulse/internal/infrastructure/ratelimit"
	"feedpulse/internal/ports"
	"feedpulse/internal/usecase/apps"
	"feedpulse/internal/usecase/ingest"
	"feedpulse/internal/usecase/triage"
)

// Services bundles the wired usecases for cmd consumers.
type Services struct {
	fx.In

	Ingest *ingest.Service
	Triage *triage.Service
	Apps   *apps.Service
}

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(providePolicy),
	fx.Provide(provideLimiters),
	fx.Provide(providePublisher),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewApplicationRepository,
			fx.As(new(ports.ApplicationRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewFeedbackRepository,
			fx.As(new(ports.FeedbackRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliteuow.NewUnitOfWork,
			fx.As(new(ports.UnitOfWork)),
		),
	),
	fx.Provide(ingest.NewService),
	fx.Provide(triage.NewService),
	fx.Provide(apps.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func providePolicy(ctx context.Context, cfg config.Config) (feedback.Policy, error) {
	policy, err := ingest.LoadPolicy(cfg.Policy.File)
	if err != nil {
		return feedback.Policy{}, err
	}

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"ingest policy loaded",
		slog.String("file", cfg.Policy.File),
		slog.Int("rate_limit_max", policy.RateLimit.Max),
		slog.Any("categories", policy.Categories),
	)
	return policy, nil
}

func provideLimiters(policy feedback.Policy) ingest.Limiters {
	limiters := ingest.Limiters{
		App: ratelimit.NewKeyedLimiter(policy.RateLimit.Max, policy.RateLimit.Window),
	}
	if policy.PerIPRateLimit.Enabled() {
		limiters.IP = ratelimit.NewKeyedLimiter(policy.PerIPRateLimit.Max, policy.PerIPRateLimit.Window)
	}
	return limiters
}

func providePublisher(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (ports.EventPublisher, error) {
	if strings.TrimSpace(cfg.NATS.URL) == "" {
		return events.NoopPublisher{}, nil
	}

	publisher, err := events.NewNATSPublisher(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			publisher.Close()
			return nil
		},
	})

	logging.Info(logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx")),
		"nats publisher connected", slog.String("url", cfg.NATS.URL))
	return publisher, nil
}
