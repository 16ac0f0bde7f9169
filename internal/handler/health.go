package handler

import (
	"net/http"

	"github.com/pkordes/trailbook/backend/api"
	"github.com/pkordes/trailbook/backend/internal/domain"
)

// GetHealth handles GET /healthz.
// It returns HTTP 200 with {"status":"ok"} when the server is running.
func (s *Server) GetHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// GetOpenAPI handles GET /openapi.yaml.
func (s *Server) GetOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(api.OpenAPI)
}

// ListPrompts handles GET /prompts: the moment prompts offered each day.
func (s *Server) ListPrompts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, PromptList{Data: append([]string{}, domain.DefaultPrompts...)})
}
