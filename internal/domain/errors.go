package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database, or is owned by another user.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. empty title, end date not after start date).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoActiveTrip is returned when an operation needs the user's current trip
// and there is none. No store call is made.
var ErrNoActiveTrip = errors.New("no active trip")

// ErrTripNotInProgress is returned when a day entry is submitted for a trip
// that has not started yet or whose end date has passed.
var ErrTripNotInProgress = errors.New("trip is not in progress")

// ErrEntryExists is returned when a day entry has already been recorded for
// the trip on that calendar day.
var ErrEntryExists = errors.New("day entry already added today")

// ErrOperationInProgress is returned when the same session operation is
// already running. It is the server-side reading of the client's busy flag.
var ErrOperationInProgress = errors.New("operation in progress")

// ErrConflict is returned when a write would violate a uniqueness rule
// (e.g. an email address that is already registered).
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned for failed logins and invalid tokens.
var ErrUnauthorized = errors.New("unauthorized")
