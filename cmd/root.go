// Package cmd is the thinnest possible wrapper over internal/cardops:
// flag parsing and output formatting only, no business logic (see the
// non-goals section of SPEC_FULL.md).
package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentic-research/cardgraph/internal/cardops"
	"github.com/agentic-research/cardgraph/internal/fsio"
	"github.com/agentic-research/cardgraph/internal/store"
	"github.com/agentic-research/cardgraph/internal/symbols"
)

var (
	cardsDir    string
	dbPath      string
	gildashAddr string
)

var rootCmd = &cobra.Command{
	Use:   "cardgraph",
	Short: "Manage a design-card graph backed by Markdown files and a SQLite index",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cardsDir, "cards-dir", "./cards", "Directory containing *.card.md files")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db-path", "./cards.db", "Path to the SQLite index")
	rootCmd.PersistentFlags().StringVar(&gildashAddr, "gildash-addr", "", "Base URL of the external symbol indexer (resolveCardCodeLinks/validateCodeLinks require this)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(searchCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openEngine opens the store at dbPath and builds an Engine rooted at
// the absolute form of cardsDir, the same open-then-construct sequence
// every subcommand needs.
func openEngine() (*cardops.Engine, func(), error) {
	absCardsDir, err := filepath.Abs(cardsDir)
	if err != nil {
		return nil, nil, fmt.Errorf("resolve cards-dir: %w", err)
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open store: %w", err)
	}

	fs := fsio.NewOS()
	var opts []cardops.Option
	if gildashAddr != "" {
		opts = append(opts, cardops.WithResolver(symbols.NewClient(gildashAddr)))
	}
	engine := cardops.New(st, fs, absCardsDir, opts...)
	return engine, func() { _ = st.Close() }, nil
}
