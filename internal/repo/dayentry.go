package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/trailbook/backend/internal/domain"
)

// DayEntryRepo defines the persistence operations for the day entries of a trip.
// Every operation is scoped by trip ID.
type DayEntryRepo interface {
	// Create inserts a new entry and returns the persisted record.
	// Returns domain.ErrEntryExists if the trip already has an entry on that date.
	Create(ctx context.Context, entry domain.DayEntry) (domain.DayEntry, error)

	// ListByTripID returns all entries for a trip ordered by date ascending.
	ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayEntry, error)

	// ExistsBetween reports whether the trip has an entry dated in [from, to).
	ExistsBetween(ctx context.Context, tripID uuid.UUID, from, to time.Time) (bool, error)

	// DeleteByTripID removes every entry of a trip and returns how many were removed.
	DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error)
}

// pgDayEntryRepo is the Postgres implementation of DayEntryRepo.
type pgDayEntryRepo struct {
	db db
}

// NewDayEntryRepo constructs a DayEntryRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewDayEntryRepo(db db) DayEntryRepo {
	return &pgDayEntryRepo{db: db}
}

const dayEntryColumns = `id, trip_id, entry_date, steps, weather, location, moments, photo_urls, created_at`

func (r *pgDayEntryRepo) Create(ctx context.Context, entry domain.DayEntry) (domain.DayEntry, error) {
	const q = `
		INSERT INTO day_entries (trip_id, entry_date, steps, weather, location, moments, photo_urls)
		VALUES (@trip_id, @entry_date, @steps, @weather, @location, @moments, @photo_urls)
		RETURNING ` + dayEntryColumns

	moments := entry.Moments
	if moments == nil {
		moments = []domain.Moment{}
	}
	photoURLs := entry.PhotoURLs
	if photoURLs == nil {
		photoURLs = []string{}
	}

	args := pgx.NamedArgs{
		"trip_id":    entry.TripID,
		"entry_date": pgtype.Date{Time: domain.DayOf(entry.Date), Valid: true},
		"steps":      entry.Steps,
		"weather":    entry.Weather,
		"location":   entry.Location,
		"moments":    moments, // encoded as jsonb
		"photo_urls": photoURLs,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDayEntry(row)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.DayEntry{}, fmt.Errorf("repo.DayEntryRepo.Create: %w", domain.ErrEntryExists)
		}
		return domain.DayEntry{}, fmt.Errorf("repo.DayEntryRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDayEntryRepo) ListByTripID(ctx context.Context, tripID uuid.UUID) ([]domain.DayEntry, error) {
	const q = `
		SELECT ` + dayEntryColumns + `
		FROM day_entries
		WHERE trip_id = @trip_id
		ORDER BY entry_date ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DayEntryRepo.ListByTripID: %w", err)
	}
	defer rows.Close()

	var entries []domain.DayEntry
	for rows.Next() {
		e, err := scanDayEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayEntryRepo.ListByTripID: scan: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayEntryRepo.ListByTripID: rows: %w", err)
	}
	return entries, nil
}

// ExistsBetween stops at the first matching row.
func (r *pgDayEntryRepo) ExistsBetween(ctx context.Context, tripID uuid.UUID, from, to time.Time) (bool, error) {
	const q = `
		SELECT 1
		FROM day_entries
		WHERE trip_id = @trip_id
		  AND entry_date >= @from
		  AND entry_date < @to
		LIMIT 1`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"from":    pgtype.Date{Time: domain.DayOf(from), Valid: true},
		"to":      pgtype.Date{Time: domain.DayOf(to), Valid: true},
	}

	var one int
	err := r.db.QueryRow(ctx, q, args).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("repo.DayEntryRepo.ExistsBetween: %w", err)
	}
	return true, nil
}

func (r *pgDayEntryRepo) DeleteByTripID(ctx context.Context, tripID uuid.UUID) (int64, error) {
	const q = `DELETE FROM day_entries WHERE trip_id = @trip_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return 0, fmt.Errorf("repo.DayEntryRepo.DeleteByTripID: %w", err)
	}
	return tag.RowsAffected(), nil
}

// scanDayEntry maps a single database row into a domain.DayEntry.
func scanDayEntry(s scanner) (domain.DayEntry, error) {
	var (
		e         domain.DayEntry
		id        pgtype.UUID
		tripID    pgtype.UUID
		entryDate pgtype.Date
		steps     pgtype.Int4
		weather   pgtype.Text
		location  pgtype.Text
	)

	err := s.Scan(&id, &tripID, &entryDate, &steps, &weather, &location, &e.Moments, &e.PhotoURLs, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DayEntry{}, domain.ErrNotFound
		}
		return domain.DayEntry{}, err
	}

	e.ID = uuid.UUID(id.Bytes)
	e.TripID = uuid.UUID(tripID.Bytes)
	e.Date = entryDate.Time
	if steps.Valid {
		n := int(steps.Int32)
		e.Steps = &n
	}
	if weather.Valid {
		e.Weather = &weather.String
	}
	if location.Valid {
		e.Location = &location.String
	}
	if e.Moments == nil {
		e.Moments = []domain.Moment{}
	}
	if e.PhotoURLs == nil {
		e.PhotoURLs = []string{}
	}
	return e, nil
}
