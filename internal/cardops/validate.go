package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/store"
)

// Validate implements §4.7's validate: a read-only reconciliation of
// the file tree against the card repo. It never mutates either side.
func (e *Engine) Validate(ctx context.Context, dir string) (api.ValidateReport, error) {
	if dir == "" {
		dir = e.CardsDir
	}

	rows, err := e.Store.Cards.List(nil, store.ListFilter{})
	if err != nil {
		return api.ValidateReport{}, err
	}

	var report api.ValidateReport
	filesOnDisk := make(map[string]bool)

	walkErr := e.FS.WalkCardFiles(dir, func(path string) error {
		filesOnDisk[path] = true
		return nil
	})
	if walkErr != nil {
		return api.ValidateReport{}, walkErr
	}

	rowsByPath := make(map[string]api.Card, len(rows))
	for _, row := range rows {
		rowsByPath[row.FilePath] = row
		if !filesOnDisk[row.FilePath] {
			report.StaleDBRows = append(report.StaleDBRows, row.FilePath)
		}
		if fileKey, ok := cardkey.KeyFromPath(dir, row.FilePath); ok && fileKey != row.Key {
			report.KeyMismatches = append(report.KeyMismatches, api.KeyMismatch{
				FilePath: row.FilePath,
				RowKey:   row.Key,
				FileKey:  fileKey,
			})
		}
	}

	for path := range filesOnDisk {
		if _, ok := rowsByPath[path]; !ok {
			report.OrphanFiles = append(report.OrphanFiles, path)
		}
	}

	return report, nil
}
