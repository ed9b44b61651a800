package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
)

// GetCardContext implements §4.7's getCardContext: the card plus its
// resolved code links and one hop of upstream/downstream neighbors. A
// missing symbol resolver degrades gracefully to unresolved code links
// rather than an error.
func (e *Engine) GetCardContext(ctx context.Context, key string) (api.CardContext, error) {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return api.CardContext{}, err
	}

	card, err := e.Store.Cards.FindByKey(nil, normKey)
	if err != nil {
		return api.CardContext{}, err
	}

	relations, err := e.Store.Relations.FindByCardKey(nil, normKey)
	if err != nil {
		return api.CardContext{}, err
	}

	var downstream, upstream []api.Card
	for _, r := range relations {
		neighbor, err := e.Store.Cards.FindByKey(nil, r.DstCardKey)
		if err != nil {
			continue // orphan edge: target row absent, skip
		}
		if r.IsReverse {
			upstream = append(upstream, neighbor)
		} else {
			downstream = append(downstream, neighbor)
		}
	}

	codeLinks, err := e.Store.CodeLinks.FindByCardKey(nil, normKey)
	if err != nil {
		return api.CardContext{}, err
	}

	resolved := make([]api.ResolvedCodeLink, 0, len(codeLinks))
	for _, cl := range codeLinks {
		rcl := api.ResolvedCodeLink{CodeLink: cl}
		if e.resolver != nil {
			matches, err := e.resolver.FindSymbols(ctx, cl.Symbol, cl.File)
			if err != nil {
				rcl.Reason = "file-not-indexed"
			} else if !containsExactMatch(matches, cl.Symbol, cl.File) {
				rcl.Reason = "symbol-not-found"
			} else {
				rcl.Resolved = true
			}
		}
		resolved = append(resolved, rcl)
	}

	return api.CardContext{
		Card:            card,
		CodeLinks:       resolved,
		UpstreamCards:   upstream,
		DownstreamCards: downstream,
	}, nil
}
