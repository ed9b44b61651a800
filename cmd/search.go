package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over card summaries and bodies",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		engine, closeEngine, err := openEngine()
		if err != nil {
			return err
		}
		defer closeEngine()

		cards, err := engine.SearchCards(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, c := range cards {
			fmt.Printf("%s\t%s\n", c.Key, c.Summary)
		}
		return nil
	},
}
