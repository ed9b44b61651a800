package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Report divergence between the card files and the SQLite index",
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		report, err := engine.Validate(cmd.Context(), "")
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))

		if len(report.StaleDBRows) > 0 || len(report.OrphanFiles) > 0 || len(report.KeyMismatches) > 0 {
			return fmt.Errorf("validation found divergence")
		}
		return nil
	},
}
