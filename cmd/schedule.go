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
	scheduleVenue     string
	scheduleWeekStart string
)

// generateScheduleCmd represents the generate-schedule command
var generateScheduleCmd = &cobra.Command{
	Use:   "generate-schedule",
	Short: "Generate the weekly shift schedule",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		result, err := svc.Roster.GenerateWeek(cmd.Context(), scheduleVenue, scheduleWeekStart)
		if err != nil {
			return errs.Wrap(err, "generate schedule")
		}

		s := result.Schedule
		_, err = fmt.Fprintf(cmd.OutOrStdout(),
			"schedule %s (%s): %d assignments, %.1f labor hours, $%.2f cost, CPLH %.2f, labor %.1f%%, quality %.2f, %d unfilled\n",
			s.ID, s.OptimizationMode, len(result.Assignments), s.TotalLaborHours, s.TotalLaborCost,
			s.OverallCPLH, s.LaborPct, s.QualityScore, result.Unfilled)
		return err
	}),
}

func init() {
	rootCmd.AddCommand(generateScheduleCmd)

	generateScheduleCmd.Flags().StringVar(&scheduleVenue, "venue", "", "Venue ID")
	generateScheduleCmd.Flags().StringVar(&scheduleWeekStart, "week-start", "", "Week start date (YYYY-MM-DD, a Monday)")
	_ = generateScheduleCmd.MarkFlagRequired("venue")
	_ = generateScheduleCmd.MarkFlagRequired("week-start")
}
