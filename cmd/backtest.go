/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/domain/staffing"
	"shiftwise/internal/errs"
)

var (
	backtestVenue    string
	backtestDate     string
	backtestFrom     string
	backtestTo       string
	backtestScenario string
	backtestRolling  bool
)

// backtestCmd represents the backtest command
var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Score past recommendations against realized occupancy",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		scenario := staffing.Scenario(backtestScenario)
		switch scenario {
		case staffing.ScenarioLean, staffing.ScenarioBuffered, staffing.ScenarioSafe:
		default:
			return fmt.Errorf("unknown scenario %q", backtestScenario)
		}

		ctx := cmd.Context()
		switch {
		case backtestDate != "":
			result, err := svc.Backtest.RunDate(ctx, backtestVenue, backtestDate, scenario, backtestRolling)
			if err != nil {
				return errs.Wrap(err, "backtest date")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s %s: coverage %.1f%%, accuracy %.1f%% (%d hours)\n",
				result.BacktestType, result.BusinessDate, result.CoveragePct, result.AccuracyPct, result.HoursAnalyzed)
			return err
		case backtestFrom != "" && backtestTo != "":
			scored, err := svc.Backtest.RunRange(ctx, backtestVenue, backtestFrom, backtestTo, scenario, backtestRolling)
			if err != nil {
				return errs.Wrap(err, "backtest range")
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "scored %d dates\n", scored)
			return err
		default:
			return errors.New("either --date or both --from and --to are required")
		}
	}),
}

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVar(&backtestVenue, "venue", "", "Venue ID")
	backtestCmd.Flags().StringVar(&backtestDate, "date", "", "Business date (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestFrom, "from", "", "Range start (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestTo, "to", "", "Range end (YYYY-MM-DD)")
	backtestCmd.Flags().StringVar(&backtestScenario, "scenario", "buffered", "Scenario to grade (lean|buffered|safe)")
	backtestCmd.Flags().BoolVar(&backtestRolling, "rolling", false, "Rebuild statistics from the window ending the day before each date")
	_ = backtestCmd.MarkFlagRequired("venue")
}
