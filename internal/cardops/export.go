package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
)

// ExportCardToFile implements §4.7's exportCardToFile: regenerate the
// file from DB state. Only forward relations appear in front matter;
// keywords, tags, code links, and constraints are included only when
// non-empty.
func (e *Engine) ExportCardToFile(ctx context.Context, key string) error {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return err
	}

	card, err := e.Store.Cards.FindByKey(nil, normKey)
	if err != nil {
		return err
	}

	relations, err := e.Store.Relations.FindByCardKey(nil, normKey)
	if err != nil {
		return err
	}
	var forward []api.RelationInput
	for _, r := range relations {
		if !r.IsReverse {
			forward = append(forward, api.RelationInput{Type: r.Type, Target: r.DstCardKey})
		}
	}

	keywords, err := e.Store.Classifications.FindKeywordsByCard(nil, normKey)
	if err != nil {
		return err
	}
	tags, err := e.Store.Classifications.FindTagsByCard(nil, normKey)
	if err != nil {
		return err
	}
	codeLinks, err := e.Store.CodeLinks.FindByCardKey(nil, normKey)
	if err != nil {
		return err
	}

	cf, err := cardFileFrom(card, forward, keywords, tags, codeLinks)
	if err != nil {
		return err
	}

	path := card.FilePath
	if path == "" {
		path = e.path(normKey)
	}
	return e.FS.Write(path, cf)
}
