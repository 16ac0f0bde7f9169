// Package lifecycle ends a user's current trip. Which of the three endings
// applies depends only on the trip's phase today:
//
//	NotYetStarted -> abandon:  delete the trip
//	InProgress    -> complete: is_completed = true, end_date = today
//	Over          -> finalize: is_completed = true, end_date unchanged
//
// Each ending is one store write followed by a reset of the session.
package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/repo"
	"github.com/pkordes/trailbook/backend/internal/session"
)

// Action is the ending applied to a trip.
type Action string

const (
	ActionAbandon  Action = "abandon"
	ActionComplete Action = "complete"
	ActionFinalize Action = "finalize"
)

// ActionFor returns the ending that applies to a trip in phase p.
func ActionFor(p domain.TripPhase) (Action, error) {
	switch p {
	case domain.PhaseNotYetStarted:
		return ActionAbandon, nil
	case domain.PhaseInProgress:
		return ActionComplete, nil
	case domain.PhaseOver:
		return ActionFinalize, nil
	}
	return "", fmt.Errorf("lifecycle: no action for phase %d", int(p))
}

// Result describes an ending that was applied. Trip is the stored trip after
// the write, nil when the trip was abandoned.
type Result struct {
	Action Action
	Phase  domain.TripPhase
	Trip   *domain.Trip
}

// Controller applies trip endings.
type Controller struct {
	trips repo.TripRepo
	log   *slog.Logger
}

// NewController constructs a Controller backed by the provided TripRepo.
func NewController(trips repo.TripRepo, log *slog.Logger) *Controller {
	if log == nil {
		log = slog.Default()
	}
	return &Controller{trips: trips, log: log}
}

// End applies the ending that fits the session's current trip today.
//
// Returns domain.ErrNoActiveTrip when there is no current trip, and
// domain.ErrOperationInProgress while another End for the same session runs.
// When the store write fails the session is left untouched.
func (c *Controller) End(ctx context.Context, sess *session.TripSession) (Result, error) {
	if !sess.Begin(session.OpEndTrip) {
		return Result{}, fmt.Errorf("lifecycle.Controller.End: %w", domain.ErrOperationInProgress)
	}

	res, err := c.end(ctx, sess)
	sess.Finish(session.OpEndTrip, err)
	if err != nil {
		return Result{}, fmt.Errorf("lifecycle.Controller.End: %w", err)
	}
	return res, nil
}

func (c *Controller) end(ctx context.Context, sess *session.TripSession) (Result, error) {
	trip := sess.CurrentTrip()
	if trip == nil || trip.ID == uuid.Nil {
		return Result{}, domain.ErrNoActiveTrip
	}

	today := sess.Today()
	phase := trip.PhaseOn(today)
	action, err := ActionFor(phase)
	if err != nil {
		return Result{}, err
	}

	res := Result{Action: action, Phase: phase}
	switch action {
	case ActionAbandon:
		if err := c.trips.Delete(ctx, trip.ID); err != nil {
			return Result{}, err
		}
	case ActionComplete:
		updated, err := c.trips.MarkCompleted(ctx, trip.ID, &today)
		if err != nil {
			return Result{}, err
		}
		res.Trip = &updated
	case ActionFinalize:
		updated, err := c.trips.MarkCompleted(ctx, trip.ID, nil)
		if err != nil {
			return Result{}, err
		}
		res.Trip = &updated
	}

	c.log.InfoContext(ctx, "trip ended",
		"user_id", sess.UserID(),
		"trip_id", trip.ID,
		"action", string(action),
		"phase", phase.String(),
	)

	if action != ActionAbandon {
		if _, err := sess.FetchPastTrips(ctx); err != nil {
			// The trip is already completed in the store; the list catches up on the next fetch.
			c.log.ErrorContext(ctx, "failed to refresh past trips", "user_id", sess.UserID(), "error", err)
		}
	}
	sess.ClearCurrentTrip()
	sess.SetCurrentTripPointer(ctx, nil)

	return res, nil
}
