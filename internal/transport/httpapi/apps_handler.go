package httpapi

import (
	"encoding/json"
	"net/http"

	"feedpulse/internal/ports"
	"feedpulse/internal/usecase/apps"
)

type applicationResponse struct {
	AppID          uint64  `json:"app_id"`
	Name           string  `json:"name"`
	Slug           string  `json:"slug"`
	CredentialHint string  `json:"credential_hint"`
	OwnerEmail     *string `json:"owner_email,omitempty"`
	IsActive       bool    `json:"is_active"`
	CreatedAt      string  `json:"created_at"`
	RotatedAt      *string `json:"rotated_at,omitempty"`
}

func toApplicationResponse(app ports.Application) applicationResponse {
	return applicationResponse{
		AppID:          app.AppID,
		Name:           app.Name,
		Slug:           app.Slug,
		CredentialHint: app.CredentialHint,
		OwnerEmail:     app.OwnerEmail,
		IsActive:       app.IsActive,
		CreatedAt:      app.CreatedAt,
		RotatedAt:      app.RotatedAt,
	}
}

type createApplicationRequest struct {
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	OwnerEmail string `json:"owner_email"`
}

// credentialResponse is the one-time reveal: the plaintext key appears in
// this response and nowhere else, ever again.
type credentialResponse struct {
	Application applicationResponse `json:"application"`
	Credential  string              `json:"credential"`
}

func handleCreateApplication(svc appsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "apps service is not configured")
			return
		}

		var req createApplicationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed request body")
			return
		}

		out, err := svc.Create(r.Context(), apps.CreateInput{
			Name:       req.Name,
			Slug:       req.Slug,
			OwnerEmail: req.OwnerEmail,
		})
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusCreated, credentialResponse{
			Application: toApplicationResponse(out.Application),
			Credential:  out.Credential,
		})
	}
}

func handleListApplications(svc appsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "apps service is not configured")
			return
		}

		items, err := svc.List(r.Context())
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		out := make([]applicationResponse, 0, len(items))
		for _, app := range items {
			out = append(out, toApplicationResponse(app))
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": out})
	}
}

func handleGetApplication(svc appsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "apps service is not configured")
			return
		}

		appID, ok := pathID(w, r, "appID")
		if !ok {
			return
		}

		app, err := svc.Get(r.Context(), appID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, toApplicationResponse(app))
	}
}

func handleRotateCredential(svc appsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			writeError(w, http.StatusInternalServerError, "apps service is not configured")
			return
		}

		appID, ok := pathID(w, r, "appID")
		if !ok {
			return
		}

		out, err := svc.RotateCredential(r.Context(), appID)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}

		writeJSON(w, http.StatusOK, credentialResponse{
			Application: toApplicationResponse(out.Application),
			Credential:  out.Credential,
		})
	}
}
