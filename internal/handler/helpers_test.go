package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/handler"
	"github.com/pkordes/trailbook/backend/internal/middleware"
	"github.com/pkordes/trailbook/backend/internal/session"
	"github.com/pkordes/trailbook/backend/testutil"
)

// testUser is the user every authenticated test request acts as.
var testUser = uuid.MustParse("6f1c2a4e-0b1d-4c55-9a57-1e2f3a4b5c6d")

// today is 2025-01-15 14:30 UTC for every session built here.
var today = time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

// fakeAuth stands in for the bearer-token middleware: every request is testUser.
func fakeAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(middleware.WithUserID(r.Context(), testUser)))
	})
}

// newSessions returns a registry over empty in-memory repos. Handler tests
// mock the services, so the sessions only carry identity and the clock.
func newSessions() *session.Registry {
	return session.NewRegistry(session.Deps{
		Trips:  testutil.NewMemTrips(),
		Days:   testutil.NewMemDays(),
		Users:  testutil.NewMemUsers(),
		Now:    func() time.Time { return today },
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// newHTTPHandler wires a Server with the given deps into its router, the
// same way main.go does in production.
func newHTTPHandler(d handler.Deps) http.Handler {
	if d.Sessions == nil {
		d.Sessions = newSessions()
	}
	d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return handler.NewServer(d).Routes(fakeAuth)
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp.Error
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
