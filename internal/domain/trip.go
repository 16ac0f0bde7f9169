// Package domain contains the core data types for the Trailbook API.
// This package depends only on google/uuid and is imported by every other
// internal package (repo, session, lifecycle, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Trip is a user-defined travel period. A user normally has at most one trip
// with IsCompleted == false: their current trip.
type Trip struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Title       string     `json:"title"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"` // nil when the user did not pick one
	IsCompleted bool       `json:"is_completed"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// NewTrip carries the user's input for a trip that has not been saved yet.
type NewTrip struct {
	Title     string
	StartDate time.Time
	EndDate   *time.Time
}

// TripPhase is a trip's relationship to a given day.
type TripPhase int

const (
	// PhaseNotYetStarted: today is before the start date.
	PhaseNotYetStarted TripPhase = iota + 1
	// PhaseInProgress: the start date has passed and the end date, if any, has not.
	PhaseInProgress
	// PhaseOver: the end date is set and today is after it.
	PhaseOver
)

func (p TripPhase) String() string {
	switch p {
	case PhaseNotYetStarted:
		return "not_yet_started"
	case PhaseInProgress:
		return "in_progress"
	case PhaseOver:
		return "over"
	default:
		return "unknown"
	}
}

// MarshalText lets phases appear as strings in JSON.
func (p TripPhase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// PhaseOn reports the trip's phase on the calendar day containing today.
// All comparisons are made on day granularity, so a trip ending today is
// still in progress.
func (t Trip) PhaseOn(today time.Time) TripPhase {
	day := DayOf(today)
	if day.Before(DayOf(t.StartDate)) {
		return PhaseNotYetStarted
	}
	if t.EndDate != nil && day.After(DayOf(*t.EndDate)) {
		return PhaseOver
	}
	return PhaseInProgress
}

// DayOf truncates t to midnight UTC of the calendar day t falls on in its own
// location. Postgres DATE values scan as UTC midnight, so DayOf values from
// the database and from a zoned clock compare directly.
func DayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateKey formats the calendar day of t the way blob paths and exports expect.
func DateKey(t time.Time) string {
	return DayOf(t).Format(time.DateOnly)
}
