// Package session holds the per-user trip state: the current trip, the past
// trips, and the "entry already added today" flag. The state is a cache of
// the trips table, rebuilt by explicit fetches rather than kept in sync.
//
// Every change goes through a named transition method. The mutex only keeps
// concurrent HTTP requests from tearing the fields; ordering between
// operations is left to the advisory Loading state (see Begin).
package session

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
)

// Deps are the collaborators shared by every session.
type Deps struct {
	Trips  repo.TripRepo
	Days   repo.DayEntryRepo
	Users  repo.UserRepo
	Now    func() time.Time // wall clock in the trips' time zone
	Logger *slog.Logger
}

// TripSession is the trip state of one user.
type TripSession struct {
	userID uuid.UUID
	deps   Deps

	mu             sync.Mutex
	current        *domain.Trip
	past           []domain.Trip
	addedDayEntry  bool
	multipleActive bool
	ops            map[Op]OpState
}

// Snapshot is a copy of a session's state.
type Snapshot struct {
	CurrentTrip    *domain.Trip
	PastTrips      []domain.Trip
	AddedDayEntry  bool
	MultipleActive bool
}

// New returns an empty session for userID. Nil Now and Logger fall back to
// time.Now and slog.Default.
func New(userID uuid.UUID, deps Deps) *TripSession {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &TripSession{
		userID: userID,
		deps:   deps,
		past:   []domain.Trip{},
		ops:    map[Op]OpState{},
	}
}

// UserID returns the owner of the session.
func (s *TripSession) UserID() uuid.UUID { return s.userID }

// Today returns the current calendar day.
func (s *TripSession) Today() time.Time { return domain.DayOf(s.deps.Now()) }

// Snapshot returns a copy of the session's state.
func (s *TripSession) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		CurrentTrip:    copyTrip(s.current),
		PastTrips:      slices.Clone(s.past),
		AddedDayEntry:  s.addedDayEntry,
		MultipleActive: s.multipleActive,
	}
}

// CurrentTrip returns a copy of the current trip, or nil.
func (s *TripSession) CurrentTrip() *domain.Trip {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyTrip(s.current)
}

// AddedDayEntry reports whether today's entry is known to exist.
func (s *TripSession) AddedDayEntry() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addedDayEntry
}

// State returns the load state of op.
func (s *TripSession) State(op Op) OpState {
	s.mu.Lock()
	defer s.mu.Unlock()
	if st, ok := s.ops[op]; ok {
		return st
	}
	return Idle{}
}

// Begin marks op as Loading. It returns false, changing nothing, when op is
// already Loading; callers treat that as domain.ErrOperationInProgress.
func (s *TripSession) Begin(op Op) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.ops[op].(Loading); busy {
		return false
	}
	s.ops[op] = Loading{}
	return true
}

// Finish records the outcome of op.
func (s *TripSession) Finish(op Op, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.ops[op] = Failed{Reason: err}
		return
	}
	s.ops[op] = Success{}
}

// FetchCurrentTrip reloads the user's open trip. With several open trips the
// most recently created one is adopted and the anomaly is flagged and logged.
func (s *TripSession) FetchCurrentTrip(ctx context.Context) error {
	s.setState(OpLoadCurrent, Loading{})

	trips, err := s.deps.Trips.ListByUser(ctx, s.userID, false)
	if err != nil {
		err = fmt.Errorf("session.FetchCurrentTrip: %w", err)
		s.Finish(OpLoadCurrent, err)
		return err
	}

	switch {
	case len(trips) == 0:
		s.ClearCurrentTrip()
		s.setMultipleActive(false)
	default:
		s.AdoptCurrentTrip(trips[0])
		s.setMultipleActive(len(trips) > 1)
		if len(trips) > 1 {
			s.deps.Logger.WarnContext(ctx, "user has more than one current trip",
				"user_id", s.userID,
				"count", len(trips),
				"adopted_trip_id", trips[0].ID,
			)
		}
		s.refreshEntryFlag(ctx, trips[0].ID)
	}

	s.Finish(OpLoadCurrent, nil)
	return nil
}

// EnsureCurrentTrip fetches the current trip unless a fetch has already
// succeeded in this process. A fresh session, or one whose last fetch
// failed, knows nothing about the store yet.
func (s *TripSession) EnsureCurrentTrip(ctx context.Context) error {
	switch s.State(OpLoadCurrent).(type) {
	case Idle, Failed:
		return s.FetchCurrentTrip(ctx)
	}
	return nil
}

// FetchPastTrips replaces the past-trips list with the user's completed trips.
func (s *TripSession) FetchPastTrips(ctx context.Context) ([]domain.Trip, error) {
	s.setState(OpLoadPast, Loading{})

	trips, err := s.deps.Trips.ListByUser(ctx, s.userID, true)
	if err != nil {
		err = fmt.Errorf("session.FetchPastTrips: %w", err)
		s.Finish(OpLoadPast, err)
		return nil, err
	}

	s.replacePastTrips(trips)
	s.Finish(OpLoadPast, nil)
	return s.Snapshot().PastTrips, nil
}

// SetCurrentTripPointer records tripID as the user's current trip on their
// profile; nil clears it. Failures are logged and never returned.
func (s *TripSession) SetCurrentTripPointer(ctx context.Context, tripID *uuid.UUID) {
	if err := s.deps.Users.SetCurrentTrip(ctx, s.userID, tripID); err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to set current trip pointer",
			"user_id", s.userID,
			"trip_id", tripID,
			"error", err,
		)
	}
}

// AdoptCurrentTrip makes trip the current trip. The entry flag resets until
// the next fetch or submission says otherwise.
func (s *TripSession) AdoptCurrentTrip(trip domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil || s.current.ID != trip.ID {
		s.addedDayEntry = false
	}
	s.current = &trip
}

// ClearCurrentTrip forgets the current trip and the entry flag.
func (s *TripSession) ClearCurrentTrip() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.addedDayEntry = false
}

// MarkDayEntryAdded sets the entry flag for today.
func (s *TripSession) MarkDayEntryAdded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addedDayEntry = true
}

// RemovePastTrip drops a deleted trip from the past-trips list.
func (s *TripSession) RemovePastTrip(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.past = slices.DeleteFunc(s.past, func(t domain.Trip) bool { return t.ID == id })
}

func (s *TripSession) replacePastTrips(trips []domain.Trip) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if trips == nil {
		trips = []domain.Trip{}
	}
	s.past = trips
}

func (s *TripSession) setMultipleActive(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.multipleActive = v
}

func (s *TripSession) setState(op Op, st OpState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ops[op] = st
}

// refreshEntryFlag checks for an entry dated today. A failed check is logged
// and leaves the flag as it was.
func (s *TripSession) refreshEntryFlag(ctx context.Context, tripID uuid.UUID) {
	today := s.Today()
	found, err := s.deps.Days.ExistsBetween(ctx, tripID, today, today.AddDate(0, 0, 1))
	if err != nil {
		s.deps.Logger.ErrorContext(ctx, "failed to check for today's day entry",
			"trip_id", tripID,
			"error", err,
		)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && s.current.ID == tripID {
		s.addedDayEntry = found
	}
}

func copyTrip(t *domain.Trip) *domain.Trip {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
