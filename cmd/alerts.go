/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/errs"
)

var (
	alertsVenue string
	alertsDate  string
)

// checkAlertsCmd represents the check-alerts command
var checkAlertsCmd = &cobra.Command{
	Use:   "check-alerts",
	Short: "Flag anomalies for a business date",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		alerts, err := svc.Alert.CheckDate(cmd.Context(), alertsVenue, alertsDate)
		if err != nil {
			return errs.Wrap(err, "check alerts")
		}

		out := cmd.OutOrStdout()
		if len(alerts) == 0 {
			_, err = fmt.Fprintln(out, "no anomalies")
			return err
		}
		for _, a := range alerts {
			slot := "day"
			if a.HourSlot != nil {
				slot = fmt.Sprintf("%02d:00", *a.HourSlot)
			}
			if _, err := fmt.Fprintf(out, "[%s] %s %s: %s\n", a.Severity, slot, a.AlertType, a.Message); err != nil {
				return errs.Wrap(err, "write alert output")
			}
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(checkAlertsCmd)

	checkAlertsCmd.Flags().StringVar(&alertsVenue, "venue", "", "Venue ID")
	checkAlertsCmd.Flags().StringVar(&alertsDate, "date", "", "Business date (YYYY-MM-DD)")
	_ = checkAlertsCmd.MarkFlagRequired("venue")
	_ = checkAlertsCmd.MarkFlagRequired("date")
}
