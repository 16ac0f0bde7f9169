package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
	"github.com/pkordes/trailbook/backend/internal/session"
)

// ExportService assembles a flat export of one trip's journal.
type ExportService struct {
	trips repo.TripRepo
	days  repo.DayEntryRepo
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(trips repo.TripRepo, days repo.DayEntryRepo) *ExportService {
	return &ExportService{trips: trips, days: days}
}

// Export returns one ExportRow per day entry of the trip, in date order.
// A trip with no entries yields one row with empty entry fields.
// Returns domain.ErrNotFound if the trip does not belong to the session's user.
func (s *ExportService) Export(ctx context.Context, sess *session.TripSession, tripID uuid.UUID) ([]domain.ExportRow, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	if trip.UserID != sess.UserID() {
		return nil, fmt.Errorf("service.ExportService.Export: %w", domain.ErrNotFound)
	}

	entries, err := s.days.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	base := domain.ExportRow{
		TripID:        trip.ID.String(),
		TripTitle:     trip.Title,
		TripStartDate: domain.DateKey(trip.StartDate),
	}
	if trip.EndDate != nil {
		base.TripEndDate = domain.DateKey(*trip.EndDate)
	}

	if len(entries) == 0 {
		return []domain.ExportRow{base}, nil
	}

	rows := make([]domain.ExportRow, 0, len(entries))
	for _, e := range entries {
		row := base
		row.EntryDate = domain.DateKey(e.Date)
		row.Location = deref(e.Location)
		row.Weather = deref(e.Weather)
		row.Steps = e.Steps
		row.Moments = make([]string, 0, len(e.Moments))
		for _, m := range e.Moments {
			row.Moments = append(row.Moments, strings.TrimSpace(m.Prompt)+": "+strings.TrimSpace(m.Response))
		}
		row.PhotoURLs = append([]string{}, e.PhotoURLs...)
		rows = append(rows, row)
	}
	return rows, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
