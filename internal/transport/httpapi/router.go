package httpapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"feedpulse/internal/ports"
	"feedpulse/internal/usecase/apps"
	"feedpulse/internal/usecase/ingest"
	"feedpulse/internal/usecase/triage"
)

// Narrow service views so handler tests can stub them (the concrete
// usecase services satisfy these).
type ingestService interface {
	Submit(ctx context.Context, input ingest.SubmitInput) (ingest.SubmitResult, error)
}

type triageService interface {
	List(ctx context.Context, input triage.ListInput) ([]ports.FeedbackRecord, error)
	Get(ctx context.Context, feedbackID uint64) (ports.FeedbackRecord, error)
	Transition(ctx context.Context, input triage.TransitionInput) (triage.TransitionResult, error)
	Delete(ctx context.Context, feedbackID uint64) error
}

type appsService interface {
	Create(ctx context.Context, input apps.CreateInput) (apps.CreateResult, error)
	List(ctx context.Context) ([]ports.Application, error)
	Get(ctx context.Context, appID uint64) (ports.Application, error)
	RotateCredential(ctx context.Context, appID uint64) (apps.RotateResult, error)
}

type Deps struct {
	Ingest ingestService
	Triage triageService
	Apps   appsService
	// AdminToken guards /api/v1/admin; empty disables the guard.
	AdminToken string
}

// NewRouter builds the full API surface: the credentialed ingestion write
// plus the admin read/mutate endpoints consumed by the dashboard.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/feedback", handleSubmitFeedback(deps.Ingest))

		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAdminToken(deps.AdminToken))

			r.Get("/feedback", handleListFeedback(deps.Triage))
			r.Get("/feedback/{feedbackID}", handleGetFeedback(deps.Triage))
			r.Post("/feedback/{feedbackID}/status", handleTransitionFeedback(deps.Triage))
			r.Delete("/feedback/{feedbackID}", handleDeleteFeedback(deps.Triage))

			r.Post("/applications", handleCreateApplication(deps.Apps))
			r.Get("/applications", handleListApplications(deps.Apps))
			r.Get("/applications/{appID}", handleGetApplication(deps.Apps))
			r.Post("/applications/{appID}/rotate", handleRotateCredential(deps.Apps))
		})
	})

	return r
}
