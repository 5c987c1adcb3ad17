/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/errs"
	"shiftwise/internal/ports"
)

var (
	seasonalVenue      string
	seasonalDate       string
	seasonalEvent      string
	seasonalMultiplier float64
	seasonalNotes      string
)

// setSeasonalCmd represents the set-seasonal command
var setSeasonalCmd = &cobra.Command{
	Use:   "set-seasonal",
	Short: "Curate a seasonal demand multiplier for a date",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		row := ports.SeasonalRecord{
			Date:       seasonalDate,
			EventName:  seasonalEvent,
			Multiplier: seasonalMultiplier,
			Notes:      seasonalNotes,
		}
		if seasonalVenue != "" {
			row.VenueID = &seasonalVenue
		}

		if err := svc.Seasonal.UpsertFactor(cmd.Context(), row); err != nil {
			return errs.Wrap(err, "store seasonal factor")
		}

		scope := "all venues"
		if seasonalVenue != "" {
			scope = seasonalVenue
		}
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "seasonal factor %.2f set for %s (%s)\n", seasonalMultiplier, seasonalDate, scope)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(setSeasonalCmd)

	setSeasonalCmd.Flags().StringVar(&seasonalVenue, "venue", "", "Venue ID (empty applies to all venues)")
	setSeasonalCmd.Flags().StringVar(&seasonalDate, "date", "", "Date (YYYY-MM-DD)")
	setSeasonalCmd.Flags().StringVar(&seasonalEvent, "event", "", "Event name")
	setSeasonalCmd.Flags().Float64Var(&seasonalMultiplier, "multiplier", 1.0, "Demand multiplier")
	setSeasonalCmd.Flags().StringVar(&seasonalNotes, "notes", "", "Free-form notes")
	_ = setSeasonalCmd.MarkFlagRequired("date")
	_ = setSeasonalCmd.MarkFlagRequired("multiplier")
}
