package cardops

import (
	"context"
	"database/sql"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/concurrency"
)

// Rename implements §4.7's rename: both endpoint keys are locked in
// ascending sort order (deadlock-avoidance, §5 point 3), the file is
// moved first, then one transaction snapshots the old card's auxiliary
// sets, deletes the old row, and re-inserts everything under the new
// key. A transaction failure rolls the file move back.
func (e *Engine) Rename(ctx context.Context, oldKey, newSlug string) (api.Card, error) {
	oldNorm, err := cardkey.Normalize(oldKey)
	if err != nil {
		return api.Card{}, err
	}
	newNorm, err := cardkey.Normalize(newSlug)
	if err != nil {
		return api.Card{}, err
	}
	oldPath := e.path(oldNorm)
	newPath := e.path(newNorm)
	if oldNorm == newNorm {
		return api.Card{}, &cerr.CardRenameSamePathError{Key: oldNorm}
	}

	release := e.locks.AcquireSorted(oldNorm, newNorm)
	defer release()

	var result api.Card
	err = concurrency.Retry(e.retryConfig, func() error {
		if !e.FS.Exists(oldPath) {
			return &cerr.CardNotFoundError{Key: oldNorm}
		}
		if e.FS.Exists(newPath) {
			return &cerr.CardAlreadyExistsError{Key: newNorm}
		}

		if err := e.FS.Rename(oldPath, newPath); err != nil {
			return err
		}

		cf, err := e.FS.Read(newPath)
		if err != nil {
			_ = e.FS.Rename(newPath, oldPath)
			return err
		}
		cf.Key = newNorm
		if err := e.FS.Write(newPath, cf); err != nil {
			_ = e.FS.Rename(newPath, oldPath)
			return err
		}

		var committed api.Card
		txErr := e.Store.WithTx(func(tx *sql.Tx) error {
			oldCard, err := e.Store.Cards.FindByKey(tx, oldNorm)
			if err != nil {
				return err
			}
			relations, err := e.Store.Relations.FindByCardKey(tx, oldNorm)
			if err != nil {
				return err
			}
			var forward []api.RelationInput
			for _, r := range relations {
				if !r.IsReverse {
					forward = append(forward, api.RelationInput{Type: r.Type, Target: r.DstCardKey})
				}
			}
			keywords, err := e.Store.Classifications.FindKeywordsByCard(tx, oldNorm)
			if err != nil {
				return err
			}
			tags, err := e.Store.Classifications.FindTagsByCard(tx, oldNorm)
			if err != nil {
				return err
			}
			codeLinks, err := e.Store.CodeLinks.FindByCardKey(tx, oldNorm)
			if err != nil {
				return err
			}

			if err := e.Store.Cards.DeleteByKey(tx, oldNorm); err != nil {
				return err
			}

			newCard := oldCard
			newCard.Key = newNorm
			newCard.FilePath = newPath
			if err := e.Store.Cards.Upsert(tx, newCard); err != nil {
				return err
			}
			if err := e.Store.Relations.ReplaceForCard(tx, newNorm, forward); err != nil {
				return err
			}
			if err := e.Store.Classifications.ReplaceKeywords(tx, newNorm, keywords); err != nil {
				return err
			}
			if err := e.Store.Classifications.ReplaceTags(tx, newNorm, tags); err != nil {
				return err
			}
			for i := range codeLinks {
				codeLinks[i].CardKey = newNorm
			}
			if err := e.Store.CodeLinks.ReplaceForCard(tx, newNorm, codeLinks); err != nil {
				return err
			}

			committed = newCard
			return nil
		})
		if txErr != nil {
			_ = e.FS.Rename(newPath, oldPath)
			cf.Key = oldNorm
			_ = e.FS.Write(oldPath, cf)
			return txErr
		}

		result = committed
		return nil
	})

	return result, err
}
