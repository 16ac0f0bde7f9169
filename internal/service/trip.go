// Package service contains the business logic for the Trailbook API.
// Services validate inputs, enforce business rules, and orchestrate repo calls
// against a user's session. No SQL lives here: services depend on repo
// interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
	"github.com/pkordes/trailbook/backend/internal/session"
)

// FolderDeleter removes every blob under a folder prefix.
// *blob.Store satisfies it.
type FolderDeleter interface {
	DeleteFolder(ctx context.Context, prefix string) error
}

// TripService implements trip creation, listing and deletion.
type TripService struct {
	trips  repo.TripRepo
	days   repo.DayEntryRepo
	photos FolderDeleter
	folder func(uuid.UUID) string
	log    *slog.Logger
}

// NewTripService constructs a TripService. folder maps a trip to the blob
// prefix holding its photos.
func NewTripService(trips repo.TripRepo, days repo.DayEntryRepo, photos FolderDeleter, folder func(uuid.UUID) string, log *slog.Logger) *TripService {
	if log == nil {
		log = slog.Default()
	}
	return &TripService{trips: trips, days: days, photos: photos, folder: folder, log: log}
}

// Create validates and persists a new trip, records it as the user's current
// trip and adopts it in the session.
// Returns domain.ErrValidation if input violates business rules; nothing is
// written in that case.
func (s *TripService) Create(ctx context.Context, sess *session.TripSession, in domain.NewTrip) (domain.Trip, error) {
	if !sess.Begin(session.OpCreateTrip) {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrOperationInProgress)
	}
	trip, err := s.create(ctx, sess, in)
	sess.Finish(session.OpCreateTrip, err)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return trip, nil
}

func (s *TripService) create(ctx context.Context, sess *session.TripSession, in domain.NewTrip) (domain.Trip, error) {
	if err := validateNewTrip(&in); err != nil {
		return domain.Trip{}, err
	}

	trip := domain.Trip{
		UserID:    sess.UserID(),
		Title:     in.Title,
		StartDate: domain.DayOf(in.StartDate),
	}
	if in.EndDate != nil {
		end := domain.DayOf(*in.EndDate)
		trip.EndDate = &end
	}

	saved, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, err
	}
	sess.SetCurrentTripPointer(ctx, &saved.ID)
	sess.AdoptCurrentTrip(saved)

	s.log.InfoContext(ctx, "trip created", "user_id", saved.UserID, "trip_id", saved.ID)
	return saved, nil
}

// validateNewTrip trims the title in place and enforces the creation rules.
func validateNewTrip(in *domain.NewTrip) error {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", domain.ErrValidation)
	}
	if in.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", domain.ErrValidation)
	}
	if in.EndDate != nil && !domain.DayOf(*in.EndDate).After(domain.DayOf(in.StartDate)) {
		return fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	return nil
}

// Current reloads the user's current trip and returns the session state.
func (s *TripService) Current(ctx context.Context, sess *session.TripSession) (session.Snapshot, error) {
	if err := sess.FetchCurrentTrip(ctx); err != nil {
		return session.Snapshot{}, fmt.Errorf("service.TripService.Current: %w", err)
	}
	return sess.Snapshot(), nil
}

// Past reloads and returns the user's completed trips, newest first.
// Always returns a non-nil slice.
func (s *TripService) Past(ctx context.Context, sess *session.TripSession) ([]domain.Trip, error) {
	trips, err := sess.FetchPastTrips(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Past: %w", err)
	}
	return trips, nil
}

// ListDayEntries returns the entries of one of the user's trips ordered by date.
// Returns domain.ErrNotFound if the trip does not exist or belongs to someone else.
func (s *TripService) ListDayEntries(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) ([]domain.DayEntry, error) {
	if _, err := s.owned(ctx, sess, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.ListDayEntries: %w", err)
	}
	entries, err := s.days.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListDayEntries: %w", err)
	}
	if entries == nil {
		return []domain.DayEntry{}, nil
	}
	return entries, nil
}

// Delete removes a completed trip with its photos and day entries.
//
// The three steps run in order and a failure in one does not stop the next:
// photos folder, day entries, trip record. Only a failure of the last step is
// returned. In-progress trips are ended through the lifecycle controller
// instead and yield domain.ErrConflict here.
func (s *TripService) Delete(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) error {
	trip, err := s.owned(ctx, sess, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if !trip.IsCompleted {
		return fmt.Errorf("service.TripService.Delete: %w: trip is still open, end it instead", domain.ErrConflict)
	}

	if err := s.photos.DeleteFolder(ctx, s.folder(tripID)); err != nil {
		s.log.WarnContext(ctx, "failed to delete trip photos", "trip_id", tripID, "error", err)
	}
	if n, err := s.days.DeleteByTripID(ctx, tripID); err != nil {
		s.log.WarnContext(ctx, "failed to delete day entries", "trip_id", tripID, "error", err)
	} else {
		s.log.DebugContext(ctx, "day entries deleted", "trip_id", tripID, "count", n)
	}
	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	sess.RemovePastTrip(tripID)
	s.log.InfoContext(ctx, "trip deleted", "user_id", sess.UserID(), "trip_id", tripID)
	return nil
}

// owned loads a trip and hides other users' trips behind domain.ErrNotFound.
func (s *TripService) owned(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, err
	}
	if trip.UserID != sess.UserID() {
		return domain.Trip{}, domain.ErrNotFound
	}
	return trip, nil
}
