/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/errs"
	"shiftwise/internal/usecase/venue"
)

var (
	profileVenue string
	profileAsOf  string
)

// buildProfileCmd represents the build-profile command
var buildProfileCmd = &cobra.Command{
	Use:   "build-profile",
	Short: "Aggregate snapshots into a new staffing profile version",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		asOf := time.Now().UTC()
		if profileAsOf != "" {
			parsed, err := time.Parse(venue.DateLayout, profileAsOf)
			if err != nil {
				return errs.Wrapf(err, "parse --as-of %q", profileAsOf)
			}
			asOf = parsed
		}

		result, err := svc.Profile.Build(cmd.Context(), profileVenue, asOf)
		if err != nil {
			return errs.Wrap(err, "build profile")
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "profile version %d built: %d cells (%d excluded for thin history)\n",
			result.Version, result.Cells, result.Excluded)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(buildProfileCmd)

	buildProfileCmd.Flags().StringVar(&profileVenue, "venue", "", "Venue ID")
	buildProfileCmd.Flags().StringVar(&profileAsOf, "as-of", "", "Lookback window end (YYYY-MM-DD, default today)")
	_ = buildProfileCmd.MarkFlagRequired("venue")
}
