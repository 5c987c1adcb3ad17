/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/bootstrap/logging"
	"shiftwise/internal/errs"
	"shiftwise/internal/usecase/ingest"
	"shiftwise/internal/usecase/venue"
)

var (
	pipelineVenues      []string
	pipelineDate        string
	pipelineChecksFile  string
	pipelineConcurrency int
)

// pipelineCmd represents the run-pipeline command. It runs the nightly
// sequence for each venue: import the day's POS export when one is given,
// rebuild the date's snapshots, refresh the profiles, check the date for
// anomalies, forecast tomorrow, and regenerate next week's schedule. Venues
// run in parallel and fail independently; one bad venue never blocks the
// rest of the fleet.
var pipelineCmd = &cobra.Command{
	Use:   "run-pipeline",
	Short: "Run the nightly import/snapshot/profile/forecast/schedule pass for multiple venues",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		if len(pipelineVenues) == 0 {
			return errors.New("at least one --venue is required")
		}
		date, err := time.Parse(venue.DateLayout, pipelineDate)
		if err != nil {
			return errs.Wrapf(err, "parse --date %q", pipelineDate)
		}
		next := date.AddDate(0, 0, 1)
		nextDate := next.Format(venue.DateLayout)
		weekStart := scheduleWeekFor(next)

		ctx := cmd.Context()
		group, groupCtx := errgroup.WithContext(ctx)
		limit := pipelineConcurrency
		if limit < 1 {
			limit = 4
		}
		group.SetLimit(limit)

		var failed atomic.Int64
		for _, venueID := range pipelineVenues {
			venueID := venueID
			group.Go(func() error {
				venueCtx := logging.WithAttrs(groupCtx, slog.String("venue_id", venueID))
				fail := func(stage string, err error) error {
					failed.Add(1)
					logging.Error(venueCtx, "pipeline stage failed",
						slog.String("stage", stage),
						slog.Any("err", errs.Loggable(err)),
					)
					return nil
				}

				if pipelineChecksFile != "" {
					input := ingest.ImportInput{VenueID: venueID, Path: pipelineChecksFile}
					if _, err := svc.Ingest.ImportCSV(venueCtx, input); err != nil {
						return fail("import", err)
					}
				}
				if _, err := svc.Snapshot.BuildDate(venueCtx, venueID, pipelineDate); err != nil {
					return fail("snapshot", err)
				}
				if _, err := svc.Profile.Build(venueCtx, venueID, next); err != nil {
					return fail("profile", err)
				}
				if _, err := svc.Alert.CheckDate(venueCtx, venueID, pipelineDate); err != nil {
					return fail("alert", err)
				}
				if _, err := svc.Forecast.Generate(venueCtx, venueID, nextDate); err != nil {
					return fail("forecast", err)
				}
				if _, err := svc.Roster.GenerateWeek(venueCtx, venueID, weekStart); err != nil {
					return fail("schedule", err)
				}
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return errs.Wrap(err, "run pipeline")
		}

		failures := failed.Load()
		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "pipeline finished: %d venues, %d failed\n",
			len(pipelineVenues), failures); err != nil {
			return errs.Wrap(err, "write pipeline output")
		}
		if failures > 0 {
			return fmt.Errorf("%d of %d venues failed", failures, len(pipelineVenues))
		}
		return nil
	}),
}

// scheduleWeekFor returns the Monday starting the week that contains the
// date, which is the week the nightly pass reschedules.
func scheduleWeekFor(date time.Time) string {
	return date.AddDate(0, 0, -venue.WeekdayOf(date)).Format(venue.DateLayout)
}

func init() {
	rootCmd.AddCommand(pipelineCmd)

	pipelineCmd.Flags().StringSliceVar(&pipelineVenues, "venue", nil, "Venue ID (repeatable)")
	pipelineCmd.Flags().StringVar(&pipelineDate, "date", "", "Business date to process (YYYY-MM-DD)")
	pipelineCmd.Flags().StringVar(&pipelineChecksFile, "checks", "", "POS export CSV to import before the rebuild (optional)")
	pipelineCmd.Flags().IntVar(&pipelineConcurrency, "concurrency", 4, "Maximum venues processed in parallel")
	_ = pipelineCmd.MarkFlagRequired("date")
}
