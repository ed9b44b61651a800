package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export <key>",
	Short: "Regenerate a card's file from the SQLite index",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		if err := engine.ExportCardToFile(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Printf("exported %s\n", args[0])
		return nil
	},
}
