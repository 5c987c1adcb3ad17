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
	vcVenue          string
	vcOpenHour       int
	vcCloseHour      int
	vcCoversServer   float64
	vcCoversBar      float64
	vcBufferPct      float64
	vcPeakBufferPct  float64
	vcPeakWeekdays   []int
	vcClosedWeekdays []int
	vcMinServers     int
	vcMinBartenders  int
	vcHourlyRate     float64
	vcRevenueCover   float64
	vcDwellMinutes   int
)

// setVenueConfigCmd represents the set-venue-config command
var setVenueConfigCmd = &cobra.Command{
	Use:   "set-venue-config",
	Short: "Override the default settings for one venue",
	RunE: withApp(func(cmd *cobra.Command, app *bootstrap.App, svc *services) error {
		d := app.Config.Defaults
		row := ports.VenueConfigRecord{
			VenueID:            vcVenue,
			OpenHour:           pickInt(cmd, "open-hour", vcOpenHour, d.OpenHour),
			CloseHour:          pickInt(cmd, "close-hour", vcCloseHour, d.CloseHour),
			CoversPerServer:    pickFloat(cmd, "covers-per-server", vcCoversServer, d.CoversPerServer),
			CoversPerBartender: pickFloat(cmd, "covers-per-bartender", vcCoversBar, d.CoversPerBartender),
			BufferPct:          pickFloat(cmd, "buffer-pct", vcBufferPct, d.BufferPct),
			PeakBufferPct:      pickFloat(cmd, "peak-buffer-pct", vcPeakBufferPct, d.PeakBufferPct),
			PeakWeekdays:       pickInts(cmd, "peak-weekday", vcPeakWeekdays, d.PeakWeekdays),
			ClosedWeekdays:     pickInts(cmd, "closed-weekday", vcClosedWeekdays, d.ClosedWeekdays),
			MinServers:         pickInt(cmd, "min-servers", vcMinServers, d.MinServers),
			MinBartenders:      pickInt(cmd, "min-bartenders", vcMinBartenders, d.MinBartenders),
			AvgHourlyRate:      pickFloat(cmd, "hourly-rate", vcHourlyRate, d.AvgHourlyRate),
			AvgRevenuePerCover: pickFloat(cmd, "revenue-per-cover", vcRevenueCover, d.AvgRevenuePerCover),
			DwellMinutes:       pickInt(cmd, "dwell-minutes", vcDwellMinutes, d.DwellMinutes),
		}

		if err := svc.Venues.Upsert(cmd.Context(), row); err != nil {
			return errs.Wrap(err, "store venue config")
		}

		_, err := fmt.Fprintf(cmd.OutOrStdout(), "config stored for venue %s\n", vcVenue)
		return err
	}),
}

func pickInt(cmd *cobra.Command, flag string, set, fallback int) int {
	if cmd.Flags().Changed(flag) {
		return set
	}
	return fallback
}

func pickFloat(cmd *cobra.Command, flag string, set, fallback float64) float64 {
	if cmd.Flags().Changed(flag) {
		return set
	}
	return fallback
}

func pickInts(cmd *cobra.Command, flag string, set, fallback []int) []int {
	if cmd.Flags().Changed(flag) {
		return set
	}
	return fallback
}

func init() {
	rootCmd.AddCommand(setVenueConfigCmd)

	setVenueConfigCmd.Flags().StringVar(&vcVenue, "venue", "", "Venue ID")
	setVenueConfigCmd.Flags().IntVar(&vcOpenHour, "open-hour", 0, "First operating hour")
	setVenueConfigCmd.Flags().IntVar(&vcCloseHour, "close-hour", 0, "Last operating hour")
	setVenueConfigCmd.Flags().Float64Var(&vcCoversServer, "covers-per-server", 0, "Covers one server handles")
	setVenueConfigCmd.Flags().Float64Var(&vcCoversBar, "covers-per-bartender", 0, "Covers one bartender handles")
	setVenueConfigCmd.Flags().Float64Var(&vcBufferPct, "buffer-pct", 0, "Demand buffer for the buffered scenario")
	setVenueConfigCmd.Flags().Float64Var(&vcPeakBufferPct, "peak-buffer-pct", 0, "Demand buffer on peak weekdays")
	setVenueConfigCmd.Flags().IntSliceVar(&vcPeakWeekdays, "peak-weekday", nil, "Peak weekday, 0=Monday (repeatable)")
	setVenueConfigCmd.Flags().IntSliceVar(&vcClosedWeekdays, "closed-weekday", nil, "Closed weekday, 0=Monday (repeatable)")
	setVenueConfigCmd.Flags().IntVar(&vcMinServers, "min-servers", 0, "Server floor per open hour")
	setVenueConfigCmd.Flags().IntVar(&vcMinBartenders, "min-bartenders", 0, "Bartender floor per open hour")
	setVenueConfigCmd.Flags().Float64Var(&vcHourlyRate, "hourly-rate", 0, "Average hourly labor rate")
	setVenueConfigCmd.Flags().Float64Var(&vcRevenueCover, "revenue-per-cover", 0, "Average revenue per cover")
	setVenueConfigCmd.Flags().IntVar(&vcDwellMinutes, "dwell-minutes", 0, "Base dwell minutes for close-time estimation")
	_ = setVenueConfigCmd.MarkFlagRequired("venue")
}
