package httpapi

import (
	"io"
	"net"
	"net/http"

	"feedpulse/internal/usecase/ingest"
)

// CredentialHeader carries the application API key on ingestion calls.
const CredentialHeader = "X-API-Key"

// maxSubmissionBytes caps the request body well above the policy metadata
// bounds; oversized bodies fail structurally before field validation.
const maxSubmissionBytes = 64 << 10

type submitResponse struct {
	FeedbackID uint64 `json:"feedback_id"`
	Status     string `json:"status"`
	CreatedAt  string `json:"created_at"`
}

func handleSubmitFeedback(svc ingestService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "ingest service is not configured")
			return
		}

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSubmissionBytes))
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read request body")
			return
		}

		out, err := svc.Submit(r.Context(), ingest.SubmitInput{
			Credential: r.Header.Get(CredentialHeader),
			RemoteAddr: remoteHost(r),
			Body:       body,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, submitResponse{
			FeedbackID: out.FeedbackID,
			Status:     out.Status,
			CreatedAt:  out.CreatedAt,
		})
	}
}

func remoteHost(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
