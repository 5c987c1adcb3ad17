/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/errs"
)

var (
	snapshotsVenue string
	snapshotsDate  string
	snapshotsFrom  string
	snapshotsTo    string
)

// buildSnapshotsCmd represents the build-snapshots command
var buildSnapshotsCmd = &cobra.Command{
	Use:   "build-snapshots",
	Short: "Build hourly occupancy snapshots from imported checks",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		ctx := cmd.Context()

		switch {
		case snapshotsDate != "":
			hours, err := svc.Snapshot.BuildDate(ctx, snapshotsVenue, snapshotsDate)
			if err != nil {
				return errs.Wrap(err, "build snapshots")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "built %d hour slots for %s\n", hours, snapshotsDate)
			return err
		case snapshotsFrom != "" && snapshotsTo != "":
			days, err := svc.Snapshot.Backfill(ctx, snapshotsVenue, snapshotsFrom, snapshotsTo)
			if err != nil {
				return errs.Wrap(err, "backfill snapshots")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "rebuilt %d dates\n", days)
			return err
		default:
			return errors.New("either --date or both --from and --to are required")
		}
	}),
}

func init() {
	rootCmd.AddCommand(buildSnapshotsCmd)

	buildSnapshotsCmd.Flags().StringVar(&snapshotsVenue, "venue", "", "Venue ID")
	buildSnapshotsCmd.Flags().StringVar(&snapshotsDate, "date", "", "Business date (YYYY-MM-DD)")
	buildSnapshotsCmd.Flags().StringVar(&snapshotsFrom, "from", "", "Backfill range start (YYYY-MM-DD)")
	buildSnapshotsCmd.Flags().StringVar(&snapshotsTo, "to", "", "Backfill range end (YYYY-MM-DD)")
	_ = buildSnapshotsCmd.MarkFlagRequired("venue")
}
