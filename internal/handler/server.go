// Package handler implements the HTTP handlers for the Trailbook API.
// All handlers are methods on Server. They are split into domain-specific files
// (health.go, trip.go, dayentry.go, ...) but share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/lifecycle"
	"github.com/pkordes/trailbook/backend/internal/middleware"
	"github.com/pkordes/trailbook/backend/internal/session"
)

// TripServicer defines the trip operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, sess *session.TripSession, in domain.NewTrip) (domain.Trip, error)
	Current(ctx context.Context, sess *session.TripSession) (session.Snapshot, error)
	Past(ctx context.Context, sess *session.TripSession) ([]domain.Trip, error)
	ListDayEntries(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) ([]domain.DayEntry, error)
	Delete(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) error
}

// TripEnder ends the session's current trip.
type TripEnder interface {
	End(ctx context.Context, sess *session.TripSession) (lifecycle.Result, error)
}

// DayEntrySubmitter records today's entry for the current trip.
type DayEntrySubmitter interface {
	Submit(ctx context.Context, sess *session.TripSession, in domain.DaySubmission) (domain.DayEntry, error)
}

// ExportServicer produces the flat export of one trip.
type ExportServicer interface {
	Export(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) ([]domain.ExportRow, error)
}

// AuthServicer registers and signs in users.
type AuthServicer interface {
	Signup(ctx context.Context, email, password string) (string, domain.User, error)
	Login(ctx context.Context, email, password string) (string, domain.User, error)
}

// BlobReader reads stored photos.
type BlobReader interface {
	Get(ctx context.Context, path string) (domain.Blob, error)
}

// SessionProvider returns the session of a user.
type SessionProvider interface {
	For(userID uuid.UUID) *session.TripSession
}

// Deps collects the Server's collaborators. Any may be nil in tests that do
// not hit the routes using it.
type Deps struct {
	Trips    TripServicer
	Ender    TripEnder
	Entries  DayEntrySubmitter
	Export   ExportServicer
	Auth     AuthServicer
	Blobs    BlobReader
	Sessions SessionProvider
	Logger   *slog.Logger

	// MaxUploadBytes bounds the in-memory part of a day-entry upload.
	MaxUploadBytes int64
}

// Server implements every API endpoint.
type Server struct {
	trips    TripServicer
	ender    TripEnder
	entries  DayEntrySubmitter
	export   ExportServicer
	auth     AuthServicer
	blobs    BlobReader
	sessions SessionProvider
	log      *slog.Logger
	maxMem   int64
}

// NewServer constructs the Server with all its dependencies.
func NewServer(d Deps) *Server {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.MaxUploadBytes <= 0 {
		d.MaxUploadBytes = 32 << 20
	}
	return &Server{
		trips:    d.Trips,
		ender:    d.Ender,
		entries:  d.Entries,
		export:   d.Export,
		auth:     d.Auth,
		blobs:    d.Blobs,
		sessions: d.Sessions,
		log:      d.Logger,
		maxMem:   d.MaxUploadBytes,
	}
}

// Routes returns the API router. requireAuth guards every /trips route.
func (s *Server) Routes(requireAuth func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)
	r.Get("/prompts", s.ListPrompts)
	r.Get("/blobs/*", s.GetBlob)

	r.Post("/auth/signup", s.Signup)
	r.Post("/auth/login", s.Login)

	r.Route("/trips", func(r chi.Router) {
		r.Use(requireAuth)
		r.Post("/", s.CreateTrip)
		r.Get("/current", s.GetCurrentTrip)
		r.Post("/current/end", s.EndCurrentTrip)
		r.Post("/current/days", s.SubmitDayEntry)
		r.Get("/past", s.ListPastTrips)
		r.Get("/{id}/days", s.ListDayEntries)
		r.Get("/{id}/export", s.ExportTrip)
		r.Delete("/{id}", s.DeleteTrip)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody("not_found", "route not found"))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed", "method not allowed"))
	})
	return r
}

// session returns the authenticated user's session. It writes a 401 and
// returns nil when the request carries no user.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *session.TripSession {
	userID, ok := middleware.UserIDFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", "authentication required"))
		return nil
	}
	return s.sessions.For(userID)
}

// loadCurrent makes sure sess has read the user's open trip from the store
// before an operation that acts on it. It writes the error response and
// returns false on failure.
func (s *Server) loadCurrent(w http.ResponseWriter, r *http.Request, sess *session.TripSession) bool {
	if err := sess.EnsureCurrentTrip(r.Context()); err != nil {
		s.fail(w, r, "trip", err)
		return false
	}
	return true
}
