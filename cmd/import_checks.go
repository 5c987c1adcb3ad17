/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shiftwise/internal/bootstrap"
	"shiftwise/internal/errs"
	"shiftwise/internal/usecase/ingest"
)

var (
	importVenue string
	importFile  string
)

// importChecksCmd represents the import-checks command
var importChecksCmd = &cobra.Command{
	Use:   "import-checks",
	Short: "Import a POS check export (CSV)",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *services) error {
		result, err := svc.Ingest.ImportCSV(cmd.Context(), ingest.ImportInput{
			VenueID: importVenue,
			Path:    importFile,
		})
		if err != nil {
			return errs.Wrap(err, "import checks")
		}

		if _, err := fmt.Fprintf(cmd.OutOrStdout(), "imported %d checks (%d skipped)\n", result.Imported, result.Skipped); err != nil {
			return errs.Wrap(err, "write import output")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(importChecksCmd)

	importChecksCmd.Flags().StringVar(&importVenue, "venue", "", "Venue ID")
	importChecksCmd.Flags().StringVar(&importFile, "file", "", "Path to the CSV export")
	_ = importChecksCmd.MarkFlagRequired("venue")
	_ = importChecksCmd.MarkFlagRequired("file")
}
