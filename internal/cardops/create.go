package cardops

import (
	"context"
	"database/sql"
	"time"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/cardvalidate"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/concurrency"
)

// Create implements §4.7's create: validate, normalize, lock, retry,
// safe-write a new card row plus its four auxiliary sets alongside the
// new file.
func (e *Engine) Create(ctx context.Context, in api.CreateInput) (api.Card, error) {
	if err := validateInput(cardvalidate.StringPtr(in.Summary), cardvalidate.StringPtr(in.Body), in.Tags, in.Keywords, in.Relations, in.CodeLinks); err != nil {
		return api.Card{}, err
	}

	key, err := cardkey.Normalize(in.Slug)
	if err != nil {
		return api.Card{}, err
	}
	path := e.path(key)

	release := e.locks.Acquire(key)
	defer release()

	var result api.Card
	err = concurrency.Retry(e.retryConfig, func() error {
		if err := e.checkRelationTypes(in.Relations); err != nil {
			return err
		}
		if e.FS.Exists(path) {
			return &cerr.CardAlreadyExistsError{Key: key}
		}

		status := in.Status
		if status == "" {
			status = api.StatusDraft
		}
		constraints, err := marshalConstraints(in.Constraints)
		if err != nil {
			return err
		}

		card := api.Card{
			Key:         key,
			Summary:     in.Summary,
			Status:      status,
			Body:        in.Body,
			Constraints: constraints,
			FilePath:    path,
			UpdatedAt:   time.Now().UTC(),
		}
		cardFile, err := cardFileFrom(card, in.Relations, in.Keywords, in.Tags, in.CodeLinks)
		if err != nil {
			return err
		}

		committed, writeErr := concurrency.SafeWrite(
			func() (api.Card, error) {
				dbErr := e.Store.WithTx(func(tx *sql.Tx) error {
					if err := e.Store.Cards.Upsert(tx, card); err != nil {
						return err
					}
					if err := e.Store.Relations.ReplaceForCard(tx, key, in.Relations); err != nil {
						return err
					}
					if err := e.Store.Classifications.ReplaceKeywords(tx, key, in.Keywords); err != nil {
						return err
					}
					if err := e.Store.Classifications.ReplaceTags(tx, key, in.Tags); err != nil {
						return err
					}
					if err := e.Store.CodeLinks.ReplaceForCard(tx, key, in.CodeLinks); err != nil {
						return err
					}
					return nil
				})
				return card, dbErr
			},
			func(api.Card) error { return e.FS.Write(path, cardFile) },
			func(api.Card) error { return e.Store.Cards.DeleteByKey(nil, key) },
		)
		if writeErr != nil {
			return writeErr
		}
		result = committed
		return nil
	})

	return result, err
}
