package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"feedpulse/internal/ports"
	"feedpulse/internal/usecase/triage"
)

type feedbackResponse struct {
	FeedbackID uint64          `json:"feedback_id"`
	AppID      uint64          `json:"app_id"`
	EndUserID  *string         `json:"end_user_id,omitempty"`
	Rating     *int            `json:"rating,omitempty"`
	Category   *string         `json:"category,omitempty"`
	Content    *string         `json:"content,omitempty"`
	Device     json.RawMessage `json:"device"`
	Meta       json.RawMessage `json:"meta"`
	AppVersion string          `json:"app_version,omitempty"`
	OSName     string          `json:"os_name,omitempty"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"created_at"`
}

func toFeedbackResponse(record ports.FeedbackRecord) feedbackResponse {
	return feedbackResponse{
		FeedbackID: record.FeedbackID,
		AppID:      record.AppID,
		EndUserID:  record.EndUserID,
		Rating:     record.Rating,
		Category:   record.Category,
		Content:    record.Content,
		Device:     json.RawMessage(record.DeviceJSON),
		Meta:       json.RawMessage(record.MetaJSON),
		AppVersion: record.AppVersion,
		OSName:     record.OSName,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
	}
}

func handleListFeedback(svc triageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "triage service is not configured")
			return
		}

		q := r.URL.Query()
		input := triage.ListInput{
			Status:     q.Get("status"),
			Category:   q.Get("category"),
			AppVersion: q.Get("app_version"),
			OSName:     q.Get("os"),
			// Inbox default: newest first unless the caller asks for
			// insertion order.
			NewestFirst: q.Get("sort") != "oldest",
		}

		if raw := q.Get("app_id"); raw != "" {
			appID, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "app_id must be an integer")
				return
			}
			input.AppID = appID
		}
		if raw := q.Get("rating"); raw != "" {
			rating, err := strconv.Atoi(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "rating must be an integer")
				return
			}
			input.Rating = &rating
		}
		if raw := q.Get("limit"); raw != "" {
			limit, err := strconv.Atoi(raw)
			if err != nil || limit < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			input.Limit = limit
		}
		if raw := q.Get("offset"); raw != "" {
			offset, err := strconv.Atoi(raw)
			if err != nil || offset < 0 {
				writeError(w, http.StatusBadRequest, "offset must be a non-negative integer")
				return
			}
			input.Offset = offset
		}

		records, err := svc.List(r.Context(), input)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		items := make([]feedbackResponse, 0, len(records))
		for _, record := range records {
			items = append(items, toFeedbackResponse(record))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
	}
}

func handleGetFeedback(svc triageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "triage service is not configured")
			return
		}

		feedbackID, ok := pathID(w, r, "feedbackID")
		if !ok {
			return
		}

		record, err := svc.Get(r.Context(), feedbackID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toFeedbackResponse(record))
	}
}

type transitionRequest struct {
	Status string `json:"status"`
	Actor  string `json:"actor"`
}

func handleTransitionFeedback(svc triageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "triage service is not configured")
			return
		}

		feedbackID, ok := pathID(w, r, "feedbackID")
		if !ok {
			return
		}

		var req transitionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}
		if strings.TrimSpace(req.Status) == "" {
			writeError(w, http.StatusBadRequest, "status is required")
			return
		}

		out, err := svc.Transition(r.Context(), triage.TransitionInput{
			FeedbackID: feedbackID,
			To:         req.Status,
			Actor:      req.Actor,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, map[string]any{
			"feedback_id": out.FeedbackID,
			"status":      out.Status,
		})
	}
}

func handleDeleteFeedback(svc triageService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "triage service is not configured")
			return
		}

		feedbackID, ok := pathID(w, r, "feedbackID")
		if !ok {
			return
		}

		if err := svc.Delete(r.Context(), feedbackID); err != nil {
			writeServiceError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func pathID(w http.ResponseWriter, r *http.Request, param string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil || id == 0 {
		writeError(w, http.StatusBadRequest, param+" must be a positive integer")
		return 0, false
	}
	return id, true
}
