package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pkordes/trailbook/backend/internal/domain"
	"github.com/pkordes/trailbook/backend/internal/lifecycle"
	"github.com/pkordes/trailbook/backend/internal/repo"
	"github.com/pkordes/trailbook/backend/internal/session"
)

var (
	tripsUser  string
	tripsPast  bool
	tripsToday string
)

var tripsCmd = &cobra.Command{
	Use:   "trips",
	Short: "Inspect a user's trips",
}

var tripsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's open or completed trips",
	Long: `List a user's trips, newest first.

Examples:
  trailbook trips list --user 6f1c...
  trailbook trips list --user 6f1c... --past`,
	RunE: runTripsList,
}

var tripsPhaseCmd = &cobra.Command{
	Use:   "phase",
	Short: "Show the current trip's phase and how ending it would behave",
	Long: `Show the phase of a user's current trip on a given day and the action
ending the trip would take (abandon, complete or finalize).

Examples:
  trailbook trips phase --user 6f1c...
  trailbook trips phase --user 6f1c... --today "next friday"
  trailbook trips phase --user 6f1c... --today 2025-03-01`,
	RunE: runTripsPhase,
}

func init() {
	tripsCmd.PersistentFlags().StringVar(&tripsUser, "user", "", "User ID")
	_ = tripsCmd.MarkPersistentFlagRequired("user")
	tripsListCmd.Flags().BoolVar(&tripsPast, "past", false, "List completed trips instead of open ones")
	tripsPhaseCmd.Flags().StringVar(&tripsToday, "today", "", "Evaluate as of this day (e.g. tomorrow, next friday, 2025-03-01)")

	tripsCmd.AddCommand(tripsListCmd, tripsPhaseCmd)
	rootCmd.AddCommand(tripsCmd)
}

func runTripsList(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(tripsUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	_, pool, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	return listTrips(cmd.Context(), cmd.OutOrStdout(), repo.NewTripRepo(pool), userID, tripsPast, time.Now())
}

func runTripsPhase(cmd *cobra.Command, args []string) error {
	userID, err := uuid.Parse(tripsUser)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	cfg, pool, err := connect(cmd.Context())
	if err != nil {
		return err
	}
	defer pool.Close()

	today, err := parseToday(tripsToday, time.Now().In(cfg.Location()))
	if err != nil {
		return err
	}
	sess := session.New(userID, session.Deps{
		Trips:  repo.NewTripRepo(pool),
		Days:   repo.NewDayEntryRepo(pool),
		Users:  repo.NewUserRepo(pool),
		Now:    func() time.Time { return today },
		Logger: quietLogger(),
	})
	return reportPhase(cmd.Context(), cmd.OutOrStdout(), sess)
}

func listTrips(ctx context.Context, w io.Writer, trips repo.TripRepo, userID uuid.UUID, past bool, now time.Time) error {
	list, err := trips.ListByUser(ctx, userID, past)
	if err != nil {
		return fmt.Errorf("failed to list trips: %w", err)
	}

	kind := "open"
	if past {
		kind = "completed"
	}
	if len(list) == 0 {
		fmt.Fprintf(w, "No %s trips for user %s\n", kind, userID)
		return nil
	}

	fmt.Fprintf(w, "Showing %d %s trip(s)\n\n", len(list), kind)
	for i, t := range list {
		fmt.Fprintf(w, "[%d] %s\n", i+1, t.ID)
		fmt.Fprintf(w, "    %s\n", t.Title)
		fmt.Fprintf(w, "    %s\n", dateRange(t))
		fmt.Fprintf(w, "    created %s\n", humanize.RelTime(t.CreatedAt, now, "ago", "from now"))
		fmt.Fprintln(w)
	}
	return nil
}

func reportPhase(ctx context.Context, w io.Writer, sess *session.TripSession) error {
	if err := sess.FetchCurrentTrip(ctx); err != nil {
		return err
	}
	snap := sess.Snapshot()
	if snap.CurrentTrip == nil {
		fmt.Fprintln(w, "No current trip.")
		return nil
	}

	today := sess.Today()
	phase := snap.CurrentTrip.PhaseOn(today)
	action, err := lifecycle.ActionFor(phase)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Trip:    %s (%s)\n", snap.CurrentTrip.Title, snap.CurrentTrip.ID)
	fmt.Fprintf(w, "Dates:   %s\n", dateRange(*snap.CurrentTrip))
	fmt.Fprintf(w, "Today:   %s\n", domain.DateKey(today))
	fmt.Fprintf(w, "Phase:   %s\n", phase)
	fmt.Fprintf(w, "On end:  %s\n", action)
	if snap.AddedDayEntry {
		fmt.Fprintln(w, "Today's day entry is already recorded.")
	}
	if snap.MultipleActive {
		fmt.Fprintln(w, "Warning: this user has more than one open trip.")
	}
	return nil
}

func dateRange(t domain.Trip) string {
	end := "open-ended"
	if t.EndDate != nil {
		end = domain.DateKey(*t.EndDate)
	}
	return domain.DateKey(t.StartDate) + " to " + end
}
