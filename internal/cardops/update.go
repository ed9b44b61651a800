package cardops

import (
	"context"
	"database/sql"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/concurrency"
)

// Update implements §4.7's update: a field left at its zero OptField
// keeps the prior value; a field explicitly set replaces it (an empty
// slice/string deletes the optional content, per the tri-state rule
// api.OptField documents).
func (e *Engine) Update(ctx context.Context, key string, in api.UpdateInput) (api.Card, error) {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return api.Card{}, err
	}
	path := e.path(normKey)

	if err := e.validateUpdateInput(in); err != nil {
		return api.Card{}, err
	}

	release := e.locks.Acquire(normKey)
	defer release()

	var result api.Card
	err = concurrency.Retry(e.retryConfig, func() error {
		cf, err := e.FS.Read(path)
		if err != nil {
			return err
		}
		if cf.Key != normKey {
			return &cerr.CardNotFoundError{Key: normKey}
		}

		next := *cf
		if in.Summary.Set {
			next.Summary = in.Summary.Value
		}
		if in.Body.Set {
			next.Body = in.Body.Value
		}
		if in.Tags.Set {
			next.Tags = in.Tags.Value
		}
		if in.Keywords.Set {
			next.Keywords = in.Keywords.Value
		}
		if in.Relations.Set {
			next.Relations = in.Relations.Value
		}
		if in.CodeLinks.Set {
			next.CodeLinks = in.CodeLinks.Value
		}
		if in.Constraints.Set {
			next.Constraints = in.Constraints.Value
		}

		if err := e.checkRelationTypes(next.Relations); err != nil {
			return err
		}

		constraints, err := marshalConstraints(next.Constraints)
		if err != nil {
			return err
		}
		card := api.Card{
			Key:         normKey,
			Summary:     next.Summary,
			Status:      cf.Status,
			Body:        next.Body,
			Constraints: constraints,
			FilePath:    path,
		}

		committed, writeErr := concurrency.SafeWrite(
			func() (api.Card, error) {
				dbErr := e.Store.WithTx(func(tx *sql.Tx) error {
					if err := e.Store.Cards.Upsert(tx, card); err != nil {
						return err
					}
					if in.Relations.Set {
						if err := e.Store.Relations.ReplaceForCard(tx, normKey, next.Relations); err != nil {
							return err
						}
					}
					if in.Keywords.Set {
						if err := e.Store.Classifications.ReplaceKeywords(tx, normKey, next.Keywords); err != nil {
							return err
						}
					}
					if in.Tags.Set {
						if err := e.Store.Classifications.ReplaceTags(tx, normKey, next.Tags); err != nil {
							return err
						}
					}
					if in.CodeLinks.Set {
						if err := e.Store.CodeLinks.ReplaceForCard(tx, normKey, next.CodeLinks); err != nil {
							return err
						}
					}
					return nil
				})
				return card, dbErr
			},
			func(api.Card) error { return e.FS.Write(path, &next) },
			func(api.Card) error { return e.syncCardFromFileLocked(path) },
		)
		if writeErr != nil {
			return writeErr
		}
		result = committed
		return nil
	})

	return result, err
}

// UpdateStatus implements §4.7's updateStatus: same protocol as Update,
// touching only the status column and front matter.
func (e *Engine) UpdateStatus(ctx context.Context, key string, status api.CardStatus) (api.Card, error) {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return api.Card{}, err
	}
	if !status.IsValid() {
		return api.Card{}, &cerr.CardValidationError{Field: "status", Reason: "not one of the fixed enum values"}
	}
	path := e.path(normKey)

	release := e.locks.Acquire(normKey)
	defer release()

	var result api.Card
	err = concurrency.Retry(e.retryConfig, func() error {
		cf, err := e.FS.Read(path)
		if err != nil {
			return err
		}
		if cf.Key != normKey {
			return &cerr.CardNotFoundError{Key: normKey}
		}

		next := *cf
		next.Status = status

		constraints, err := marshalConstraints(next.Constraints)
		if err != nil {
			return err
		}
		card := api.Card{
			Key:         normKey,
			Summary:     next.Summary,
			Status:      status,
			Body:        next.Body,
			Constraints: constraints,
			FilePath:    path,
		}

		committed, writeErr := concurrency.SafeWrite(
			func() (api.Card, error) {
				dbErr := e.Store.WithTx(func(tx *sql.Tx) error {
					return e.Store.Cards.Upsert(tx, card)
				})
				return card, dbErr
			},
			func(api.Card) error { return e.FS.Write(path, &next) },
			func(api.Card) error { return e.syncCardFromFileLocked(path) },
		)
		if writeErr != nil {
			return writeErr
		}
		result = committed
		return nil
	})

	return result, err
}

func (e *Engine) validateUpdateInput(in api.UpdateInput) error {
	var summary, body *string
	if in.Summary.Set {
		summary = &in.Summary.Value
	}
	if in.Body.Set {
		body = &in.Body.Value
	}
	var tags, keywords []string
	if in.Tags.Set {
		tags = in.Tags.Value
	}
	if in.Keywords.Set {
		keywords = in.Keywords.Value
	}
	var relations []api.RelationInput
	if in.Relations.Set {
		relations = in.Relations.Value
	}
	var codeLinks []api.CodeLink
	if in.CodeLinks.Set {
		codeLinks = in.CodeLinks.Value
	}
	return validateInput(summary, body, tags, keywords, relations, codeLinks)
}
