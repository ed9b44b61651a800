package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
)

// SearchCards implements §4.4's search(query): an FTS5 MATCH over
// summary/body, ranked by relevance. Empty query returns empty, not
// every card — CardRepo.Search's own contract, not a special case here.
func (e *Engine) SearchCards(ctx context.Context, query string) ([]api.Card, error) {
	return e.Store.Cards.Search(nil, query)
}
