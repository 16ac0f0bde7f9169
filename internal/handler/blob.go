package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// GetBlob handles GET /blobs/*. Photo URLs are handed out to clients and
// opened without credentials, so this route is public.
func (s *Server) GetBlob(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")
	if path == "" || strings.Contains(path, "..") {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "blob not found"))
		return
	}
	b, err := s.blobs.Get(r.Context(), path)
	if err != nil {
		s.fail(w, r, "blob", err)
		return
	}

	ct := b.ContentType
	if ct == "" {
		ct = http.DetectContentType(b.Data)
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Length", strconv.Itoa(len(b.Data)))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(b.Data)
}
