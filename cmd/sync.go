package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync the SQLite index from the card files on disk",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		report, err := engine.BulkSync(cmd.Context(), "")
		if err != nil {
			return err
		}

		fmt.Printf("synced %d card(s)\n", report.Succeeded)
		for _, f := range report.Failures {
			fmt.Printf("  FAILED %s: %s\n", f.FilePath, f.Error)
		}
		if len(report.Failures) > 0 {
			return fmt.Errorf("%d card(s) failed to sync", len(report.Failures))
		}
		return nil
	},
}
