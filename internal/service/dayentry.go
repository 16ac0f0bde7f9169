package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
	"github.com/pkordes/trailbook/backend/internal/session"
)

// PhotoUploader stores one photo and returns its reference URL.
// *blob.Store satisfies it.
type PhotoUploader interface {
	Put(ctx context.Context, path, contentType string, data []byte) (string, error)
}

// DayEntryService records the single journal entry a trip may have per day.
type DayEntryService struct {
	days   repo.DayEntryRepo
	photos PhotoUploader
	path   func(tripID uuid.UUID, day time.Time, index int) string
	log    *slog.Logger
}

// NewDayEntryService constructs a DayEntryService. path returns the blob path
// of the index-th photo of a trip's entry for day.
func NewDayEntryService(days repo.DayEntryRepo, photos PhotoUploader, path func(uuid.UUID, time.Time, int) string, log *slog.Logger) *DayEntryService {
	if log == nil {
		log = slog.Default()
	}
	return &DayEntryService{days: days, photos: photos, path: path, log: log}
}

// Submit records today's entry for the session's current trip.
//
// Returns domain.ErrNoActiveTrip before touching the store when there is no
// current trip, domain.ErrTripNotInProgress when today is outside the trip's
// dates, and domain.ErrEntryExists when today already has an entry.
// Photos are uploaded one at a time in order; if one fails nothing is written
// and the photos already uploaded are left in place.
func (s *DayEntryService) Submit(ctx context.Context, sess *session.TripSession, in domain.DaySubmission) (domain.DayEntry, error) {
	if !sess.Begin(session.OpSubmitEntry) {
		return domain.DayEntry{}, fmt.Errorf("service.DayEntryService.Submit: %w", domain.ErrOperationInProgress)
	}
	entry, err := s.submit(ctx, sess, in)
	sess.Finish(session.OpSubmitEntry, err)
	if err != nil {
		return domain.DayEntry{}, fmt.Errorf("service.DayEntryService.Submit: %w", err)
	}
	return entry, nil
}

func (s *DayEntryService) submit(ctx context.Context, sess *session.TripSession, in domain.DaySubmission) (domain.DayEntry, error) {
	trip := sess.CurrentTrip()
	if trip == nil || trip.ID == uuid.Nil {
		return domain.DayEntry{}, domain.ErrNoActiveTrip
	}
	today := sess.Today()
	switch trip.PhaseOn(today) {
	case domain.PhaseNotYetStarted:
		return domain.DayEntry{}, fmt.Errorf("%w: trip has not started yet", domain.ErrTripNotInProgress)
	case domain.PhaseOver:
		return domain.DayEntry{}, fmt.Errorf("%w: trip has already ended", domain.ErrTripNotInProgress)
	}
	if err := validateSubmission(in); err != nil {
		return domain.DayEntry{}, err
	}

	exists, err := s.days.ExistsBetween(ctx, trip.ID, today, today.AddDate(0, 0, 1))
	if err != nil {
		return domain.DayEntry{}, err
	}
	if exists {
		sess.MarkDayEntryAdded()
		return domain.DayEntry{}, domain.ErrEntryExists
	}

	urls := make([]string, 0, len(in.Photos))
	for i, p := range in.Photos {
		url, err := s.photos.Put(ctx, s.path(trip.ID, today, i), p.ContentType, p.Data)
		if err != nil {
			return domain.DayEntry{}, fmt.Errorf("upload photo %d: %w", i, err)
		}
		urls = append(urls, url)
	}

	entry := domain.DayEntry{
		TripID:    trip.ID,
		Date:      today,
		Steps:     optionalInt(in.Steps),
		Weather:   optionalString(in.Weather),
		Location:  optionalString(in.Location),
		Moments:   domain.AnsweredMoments(in.Moments),
		PhotoURLs: urls,
	}
	saved, err := s.days.Create(ctx, entry)
	if err != nil {
		// Lost a race with another submission for the same day.
		if errors.Is(err, domain.ErrEntryExists) {
			sess.MarkDayEntryAdded()
		}
		return domain.DayEntry{}, err
	}
	sess.MarkDayEntryAdded()

	s.log.InfoContext(ctx, "day entry added",
		"trip_id", trip.ID,
		"date", domain.DateKey(today),
		"moments", len(saved.Moments),
		"photos", len(saved.PhotoURLs),
	)
	return saved, nil
}

func validateSubmission(in domain.DaySubmission) error {
	if in.Steps < 0 {
		return fmt.Errorf("%w: steps cannot be negative", domain.ErrValidation)
	}
	for i, p := range in.Photos {
		if len(p.Data) == 0 {
			return fmt.Errorf("%w: photo %d is empty", domain.ErrValidation, i)
		}
		if !strings.HasPrefix(p.ContentType, "image/") {
			return fmt.Errorf("%w: photo %d is not an image", domain.ErrValidation, i)
		}
	}
	return nil
}

func optionalInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

func optionalString(v string) *string {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	return &v
}
