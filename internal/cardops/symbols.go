package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/store"
)

// ResolveCardCodeLinks implements §4.7's resolveCardCodeLinks: requires
// a configured symbol indexer, else GildashNotConfiguredError.
func (e *Engine) ResolveCardCodeLinks(ctx context.Context, key string) ([]api.ResolvedCodeLink, error) {
	if e.resolver == nil {
		return nil, &cerr.GildashNotConfiguredError{Operation: "resolveCardCodeLinks"}
	}
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return nil, err
	}

	codeLinks, err := e.Store.CodeLinks.FindByCardKey(nil, normKey)
	if err != nil {
		return nil, err
	}

	out := make([]api.ResolvedCodeLink, 0, len(codeLinks))
	for _, cl := range codeLinks {
		rcl := api.ResolvedCodeLink{CodeLink: cl}
		matches, err := e.resolver.FindSymbols(ctx, cl.Symbol, cl.File)
		if err != nil {
			rcl.Reason = "file-not-indexed"
		} else if !containsExactMatch(matches, cl.Symbol, cl.File) {
			rcl.Reason = "symbol-not-found"
		} else {
			rcl.Resolved = true
		}
		out = append(out, rcl)
	}
	return out, nil
}

// ValidateCodeLinks implements §4.7's validateCodeLinks: requires a
// configured symbol indexer. Every code link across every card is
// checked; unmatched links are reported as "symbol-not-found", an
// indexer error for that file as "file-not-indexed".
func (e *Engine) ValidateCodeLinks(ctx context.Context) ([]api.CodeLinkValidation, error) {
	if e.resolver == nil {
		return nil, &cerr.GildashNotConfiguredError{Operation: "validateCodeLinks"}
	}

	cards, err := e.Store.Cards.List(nil, store.ListFilter{})
	if err != nil {
		return nil, err
	}

	var out []api.CodeLinkValidation
	for _, card := range cards {
		codeLinks, err := e.Store.CodeLinks.FindByCardKey(nil, card.Key)
		if err != nil {
			return nil, err
		}
		for _, cl := range codeLinks {
			status := "ok"
			matches, err := e.resolver.FindSymbols(ctx, cl.Symbol, cl.File)
			if err != nil {
				status = "file-not-indexed"
			} else if !containsExactMatch(matches, cl.Symbol, cl.File) {
				status = "symbol-not-found"
			}
			out = append(out, api.CodeLinkValidation{CodeLink: cl, Status: status})
		}
	}
	return out, nil
}

// FindCardsBySymbol implements §4.7's findCardsBySymbol: query the
// code-link index, dedupe by card key, and return card rows in the
// order discovered, skipping keys whose card row no longer exists.
func (e *Engine) FindCardsBySymbol(ctx context.Context, name, file string) ([]api.Card, error) {
	links, err := e.Store.CodeLinks.FindBySymbol(nil, name, file)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var out []api.Card
	for _, l := range links {
		if seen[l.CardKey] {
			continue
		}
		seen[l.CardKey] = true
		card, err := e.Store.Cards.FindByKey(nil, l.CardKey)
		if err != nil {
			continue
		}
		out = append(out, card)
	}
	return out, nil
}

// FindAffectedCards implements §4.7's findAffectedCards: for each file,
// collect the unique owning card keys and return their rows.
func (e *Engine) FindAffectedCards(ctx context.Context, files []string) ([]api.Card, error) {
	if len(files) == 0 {
		return nil, nil
	}

	seen := make(map[string]bool)
	var out []api.Card
	for _, file := range files {
		links, err := e.Store.CodeLinks.FindByFile(nil, file)
		if err != nil {
			return nil, err
		}
		for _, l := range links {
			if seen[l.CardKey] {
				continue
			}
			seen[l.CardKey] = true
			card, err := e.Store.Cards.FindByKey(nil, l.CardKey)
			if err != nil {
				continue
			}
			out = append(out, card)
		}
	}
	return out, nil
}
