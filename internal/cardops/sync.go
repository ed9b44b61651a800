package cardops

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/agentic-research/cardgraph/api"
)

// SyncCardFromFile implements §4.7's syncCardFromFile: read the file,
// derive its key from the front matter, and upsert the row plus
// replace all four auxiliary sets to match exactly what the file
// declares. Idempotent — calling it twice in a row leaves the DB
// unchanged the second time.
//
// The front-matter key is trusted as-is rather than compared against
// path's filename-derived key; a divergence is only ever surfaced,
// never rejected, by Validate's keyMismatches (§9's Open Question,
// resolved this way since the source framing is "the engine trusts the
// last sync").
func (e *Engine) SyncCardFromFile(ctx context.Context, path string) error {
	cf, err := e.FS.Read(path)
	if err != nil {
		return err
	}

	key := cf.Key
	constraints, err := marshalConstraints(cf.Constraints)
	if err != nil {
		return err
	}
	card := api.Card{
		Key:         key,
		Summary:     cf.Summary,
		Status:      cf.Status,
		Body:        cf.Body,
		Constraints: constraints,
		FilePath:    path,
	}
	// A re-sync of front matter identical to the last-synced row leaves
	// the DB unchanged, including updatedAt — otherwise syncing the same
	// file twice in a row would still bump updatedAt on the second call.
	if existing, err := e.Store.Cards.FindByKey(nil, key); err == nil && cardScalarsEqual(existing, card) {
		card.UpdatedAt = existing.UpdatedAt
	}

	return e.Store.WithTx(func(tx *sql.Tx) error {
		// A row may already sit at this filePath under a different key
		// (the front-matter key changed since the last sync, §9's Open
		// Question). filePath is unique, so that stale row is removed
		// before inserting under the trusted front-matter key. The new
		// row's key then differs from the filename-derived key, which
		// Validate reports under keyMismatches.
		if existing, err := e.Store.Cards.FindByFilePath(tx, path); err == nil && existing.Key != key {
			if err := e.Store.Cards.DeleteByKey(tx, existing.Key); err != nil {
				return err
			}
		}
		if err := e.Store.Cards.Upsert(tx, card); err != nil {
			return err
		}
		if err := e.Store.Relations.ReplaceForCard(tx, key, cf.Relations); err != nil {
			return err
		}
		if err := e.Store.Classifications.ReplaceKeywords(tx, key, cf.Keywords); err != nil {
			return err
		}
		if err := e.Store.Classifications.ReplaceTags(tx, key, cf.Tags); err != nil {
			return err
		}
		if err := e.Store.CodeLinks.ReplaceForCard(tx, key, cf.CodeLinks); err != nil {
			return err
		}
		return nil
	})
}

// cardScalarsEqual compares the row-owned scalar columns a sync writes,
// ignoring UpdatedAt itself.
func cardScalarsEqual(a, b api.Card) bool {
	if a.Summary != b.Summary || a.Status != b.Status || a.Body != b.Body || a.FilePath != b.FilePath {
		return false
	}
	switch {
	case a.Constraints == nil && b.Constraints == nil:
		return true
	case a.Constraints == nil || b.Constraints == nil:
		return false
	default:
		return *a.Constraints == *b.Constraints
	}
}

// RemoveCardByFile implements §4.7's removeCardByFile: looks a row up
// by filePath and deletes it by key (cascade); a no-op if no row
// matches.
func (e *Engine) RemoveCardByFile(ctx context.Context, path string) error {
	card, err := e.Store.Cards.FindByFilePath(nil, path)
	if err != nil {
		return nil // no matching row: nothing to remove
	}
	return e.Store.Cards.DeleteByKey(nil, card.Key)
}

// BulkSync implements §4.7's bulkSync: scans dir (CardsDir if empty)
// for *.card.md entries and syncs each, accumulating failures instead
// of aborting. A missing directory propagates as an error.
func (e *Engine) BulkSync(ctx context.Context, dir string) (api.BulkSyncReport, error) {
	if dir == "" {
		dir = e.CardsDir
	}

	var report api.BulkSyncReport
	err := e.FS.WalkCardFiles(dir, func(path string) error {
		if err := e.SyncCardFromFile(ctx, path); err != nil {
			report.Failures = append(report.Failures, api.SyncFailure{FilePath: path, Error: err.Error()})
			return nil
		}
		report.Succeeded++
		return nil
	})
	if err != nil {
		return api.BulkSyncReport{}, fmt.Errorf("bulk sync %s: %w", dir, err)
	}
	return report, nil
}
