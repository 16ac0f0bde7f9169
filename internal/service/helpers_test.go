package service_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trailbook/backend/internal/blob"
	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/service"
	"github.com/pkordes/trailbook/backend/internal/session"
	"github.com/pkordes/trailbook/backend/testutil"
)

// mockPhotoStore is a hand-written test double for the photo store.
// Each method is a function field; set only the ones your test needs.
type mockPhotoStore struct {
	put          func(ctx context.Context, path, contentType string, data []byte) (string, error)
	deleteFolder func(ctx context.Context, prefix string) error
}

func (m *mockPhotoStore) Put(ctx context.Context, path, contentType string, data []byte) (string, error) {
	return m.put(ctx, path, contentType, data)
}
func (m *mockPhotoStore) DeleteFolder(ctx context.Context, prefix string) error {
	return m.deleteFolder(ctx, prefix)
}

// compile-time checks: the mock must satisfy both consumer interfaces.
var (
	_ service.PhotoUploader = (*mockPhotoStore)(nil)
	_ service.FolderDeleter = (*mockPhotoStore)(nil)
)

// today is the fixed clock reading every test session sees: 2025-01-15 14:30 UTC.
var today = time.Date(2025, 1, 15, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// env is a set of in-memory repos plus one user's session over them.
type env struct {
	trips  *testutil.MemTrips
	days   *testutil.MemDays
	users  *testutil.MemUsers
	blobs  *testutil.MemBlobs
	store  *blob.Store
	userID uuid.UUID
	sess   *session.TripSession
}

func newEnv(t *testing.T) *env {
	t.Helper()
	e := &env{
		trips:  testutil.NewMemTrips(),
		days:   testutil.NewMemDays(),
		users:  testutil.NewMemUsers(),
		blobs:  testutil.NewMemBlobs(),
		userID: uuid.New(),
	}
	e.store = blob.NewStore(e.blobs, "https://trailbook.test")
	e.sess = e.sessionFor(e.userID)
	return e
}

func (e *env) sessionFor(userID uuid.UUID) *session.TripSession {
	return session.New(userID, session.Deps{
		Trips:  e.trips,
		Days:   e.days,
		Users:  e.users,
		Now:    func() time.Time { return today },
		Logger: quietLogger(),
	})
}

// addTrip stores a trip for the env's user directly in the repo.
func (e *env) addTrip(t *testing.T, title string, start time.Time, completed bool) domain.Trip {
	t.Helper()
	trip, err := e.trips.Create(context.Background(), domain.Trip{
		UserID:      e.userID,
		Title:       title,
		StartDate:   start,
		IsCompleted: completed,
	})
	require.NoError(t, err)
	return trip
}

// startTrip stores an open trip and loads it as the session's current trip.
func (e *env) startTrip(t *testing.T) domain.Trip {
	t.Helper()
	trip := e.addTrip(t, "Coastal Drive", day(2025, 1, 10), false)
	require.NoError(t, e.sess.FetchCurrentTrip(context.Background()))
	return trip
}
