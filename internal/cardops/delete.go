package cardops

import (
	"context"
	"database/sql"

	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/concurrency"
)

// Delete implements §4.7's delete: the card row (and, by cascade, its
// relations, classification mappings, and code links) is removed in
// one transaction, then the file is removed. A file-removal failure
// compensates by re-syncing from the (still-present) file, which
// restores the row.
func (e *Engine) Delete(ctx context.Context, key string) error {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return err
	}
	path := e.path(normKey)

	release := e.locks.Acquire(normKey)
	defer release()

	return concurrency.Retry(e.retryConfig, func() error {
		if !e.FS.Exists(path) {
			return &cerr.CardNotFoundError{Key: normKey}
		}

		_, writeErr := concurrency.SafeWrite(
			func() (struct{}, error) {
				return struct{}{}, e.Store.WithTx(func(tx *sql.Tx) error {
					return e.Store.Cards.DeleteByKey(tx, normKey)
				})
			},
			func(struct{}) error { return e.FS.Delete(path) },
			func(struct{}) error { return e.syncCardFromFileLocked(path) },
		)
		return writeErr
	})
}
