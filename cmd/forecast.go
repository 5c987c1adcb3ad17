/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/errs"
	"shiftwise/internal/usecase/venue"
)

var (
	forecastVenue string
	forecastDate  string
	forecastDays  int
)

// forecastCmd represents the forecast command
var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Generate scenario staffing forecasts from the latest profile",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		if forecastDate == "" {
			return errors.New("--date is required")
		}
		start, err := time.Parse(venue.DateLayout, forecastDate)
		if err != nil {
			return errs.Wrapf(err, "parse --date %q", forecastDate)
		}

		days := forecastDays
		if days < 1 {
			days = 1
		}

		generated := 0
		skipped := 0
		for offset := 0; offset < days; offset++ {
			date := start.AddDate(0, 0, offset).Format(venue.DateLayout)
			result, err := svc.Forecast.Generate(cmd.Context(), forecastVenue, date)
			if err != nil {
				return errs.Wrapf(err, "forecast %s", date)
			}
			if result.Skipped {
				skipped++
				continue
			}
			generated++
		}

		_, err = fmt.Fprintf(cmd.OutOrStdout(), "generated forecasts for %d dates (%d skipped)\n", generated, skipped)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(forecastCmd)

	forecastCmd.Flags().StringVar(&forecastVenue, "venue", "", "Venue ID")
	forecastCmd.Flags().StringVar(&forecastDate, "date", "", "First forecast date (YYYY-MM-DD)")
	forecastCmd.Flags().IntVar(&forecastDays, "days", 1, "Number of consecutive dates to forecast")
	_ = forecastCmd.MarkFlagRequired("venue")
}
