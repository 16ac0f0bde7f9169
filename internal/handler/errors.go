package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// errorCodes maps domain sentinels to the API's error codes and statuses.
// Order matters only for readability; sentinels never wrap each other.
var errorCodes = []struct {
	err    error
	code   string
	status int
}{
	{domain.ErrValidation, "validation_error", http.StatusUnprocessableEntity},
	{domain.ErrNotFound, "not_found", http.StatusNotFound},
	{domain.ErrNoActiveTrip, "no_active_trip", http.StatusConflict},
	{domain.ErrTripNotInProgress, "trip_not_in_progress", http.StatusConflict},
	{domain.ErrEntryExists, "entry_exists", http.StatusConflict},
	{domain.ErrOperationInProgress, "operation_in_progress", http.StatusConflict},
	{domain.ErrConflict, "conflict", http.StatusConflict},
	{domain.ErrUnauthorized, "unauthorized", http.StatusUnauthorized},
}

// fail writes the error response for err. what names the resource in
// not-found messages ("trip", "blob"). Errors that are not domain outcomes
// are store failures: logged, and reported with their message as-is.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, what string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody("payload_too_large", "request body too large"))
		return
	}

	for _, c := range errorCodes {
		if !errors.Is(err, c.err) {
			continue
		}
		msg := detail(err, c.err)
		if c.err == domain.ErrNotFound && msg == c.err.Error() && what != "" {
			msg = what + " not found"
		}
		writeJSON(w, c.status, errorBody(c.code, msg))
		return
	}

	s.log.ErrorContext(r.Context(), "request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"error", err,
	)
	writeJSON(w, http.StatusInternalServerError, errorBody("store_error", stripOps(err.Error())))
}

// badRequest reports input rejected before it reached a service.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusUnprocessableEntity, errorBody("validation_error", message))
}

// detail extracts the human-readable part after the sentinel from a wrapped
// error, e.g.
// "service.TripService.Create: validation error: title cannot be empty"
// becomes "title cannot be empty". Without detail it returns the sentinel text.
func detail(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// stripOps drops the leading "pkg.Type.Method: " wrappers our layers add, so
// clients see the store's own message.
func stripOps(msg string) string {
	for {
		head, rest, ok := strings.Cut(msg, ": ")
		if !ok || strings.Count(head, ".") != 2 || strings.ContainsAny(head, " /") {
			return msg
		}
		msg = rest
	}
}

func errorBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
