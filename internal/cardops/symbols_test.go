package cardops

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/symbols"
)

func TestResolveCardCodeLinks_NoResolverConfigured(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)

	_, err = e.ResolveCardCodeLinks(ctx, "a")
	require.Error(t, err)
	var notConfigured *cerr.GildashNotConfiguredError
	assert.True(t, errors.As(err, &notConfigured))
}

func TestResolveCardCodeLinks_IndexerErrorIsFileNotIndexed(t *testing.T) {
	e := newTestEngine(t)
	e.resolver = erroringResolver{}
	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "x.ts", Symbol: "F"},
		},
	})
	require.NoError(t, err)

	resolved, err := e.ResolveCardCodeLinks(ctx, "a")
	require.NoError(t, err)
	require.Len(t, resolved, 1)
	assert.False(t, resolved[0].Resolved)
	assert.Equal(t, "file-not-indexed", resolved[0].Reason)
}

type erroringResolver struct{}

func (erroringResolver) FindSymbols(context.Context, string, string) ([]symbols.Match, error) {
	return nil, errors.New("indexer unreachable")
}

func TestValidateCodeLinks_NoResolverConfigured(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.ValidateCodeLinks(ctx)
	require.Error(t, err)
	var notConfigured *cerr.GildashNotConfiguredError
	assert.True(t, errors.As(err, &notConfigured))
}

func TestValidateCodeLinks_ReportsStatusPerLink(t *testing.T) {
	e := newTestEngine(t)
	e.resolver = &fakeResolver{matches: map[string][]symbols.Match{
		"F": {{Name: "F", File: "x.ts", Kind: "fn"}},
	}}
	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "x.ts", Symbol: "F"},
			{Kind: "fn", File: "y.ts", Symbol: "G"},
		},
	})
	require.NoError(t, err)

	report, err := e.ValidateCodeLinks(ctx)
	require.NoError(t, err)
	require.Len(t, report, 2)
	byFile := map[string]api.CodeLinkValidation{}
	for _, v := range report {
		byFile[v.File] = v
	}
	assert.Equal(t, "ok", byFile["x.ts"].Status)
	assert.Equal(t, "symbol-not-found", byFile["y.ts"].Status)
}

func TestFindCardsBySymbol_DedupesAndIgnoresMissingRows(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "x.ts", Symbol: "F"},
			{Kind: "type", File: "x.ts", Symbol: "F"},
		},
	})
	require.NoError(t, err)

	cards, err := e.FindCardsBySymbol(ctx, "F", "x.ts")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "a", cards[0].Key)
}

func TestFindAffectedCards_GroupsByFile(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "x.ts", Symbol: "F"},
		},
	})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{
		Slug:    "b",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "y.ts", Symbol: "G"},
		},
	})
	require.NoError(t, err)

	cards, err := e.FindAffectedCards(ctx, []string{"x.ts"})
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "a", cards[0].Key)

	cards, err = e.FindAffectedCards(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, cards)
}
