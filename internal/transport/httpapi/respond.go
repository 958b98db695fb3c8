package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"feedpulse/internal/bootstrap/logging"
	"feedpulse/internal/domain/feedback"
	"feedpulse/internal/errs"
	"feedpulse/internal/ports"
	"feedpulse/internal/usecase/apps"
	"feedpulse/internal/usecase/ingest"
	"feedpulse/internal/usecase/triage"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps usecase errors onto the response classes: 401 with
// no detail, 422 with per-field detail, 429 with a Retry-After hint, 409 for
// conflicts, 404 for missing references, 500 for everything else (full error
// logged server-side only).
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *feedback.ValidationError
	var rlErr *ingest.RateLimitedError

	switch {
	case errors.Is(err, ingest.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.As(err, &rlErr):
		w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(rlErr.RetryAfter)))
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
	case errors.As(err, &verr):
		fields := make(map[string]string, len(verr.Fields))
		for _, f := range verr.Fields {
			fields[f.Field] = f.Reason
		}
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "validation failed",
			Fields: fields,
		})
	case errors.Is(err, feedback.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ports.ErrDuplicateSlug):
		writeError(w, http.StatusConflict, "slug already in use")
	case errors.Is(err, ports.ErrFeedbackNotFound), errors.Is(err, ports.ErrApplicationNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, ingest.ErrMalformedBody):
		writeError(w, http.StatusBadRequest, "malformed request body")
	case errors.Is(err, feedback.ErrUnknownStatus),
		errors.Is(err, triage.ErrInvalidFilter),
		errors.Is(err, apps.ErrNameRequired),
		errors.Is(err, apps.ErrInvalidSlug):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		logging.Error(r.Context(), "request failed",
			slog.String("path", r.URL.Path),
			slog.Any("err", errs.Loggable(err)))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func retryAfterSeconds(d time.Duration) int {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return secs
}
