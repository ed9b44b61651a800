package cardops

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/symbols"
)

func TestGetCardContext_NeighborsSplitByDirection(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{
		Slug:    "b",
		Summary: "s",
		Relations: []api.RelationInput{
			{Type: "depends-on", Target: "a"},
		},
	})
	require.NoError(t, err)

	cc, err := e.GetCardContext(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", cc.Card.Key)
	require.Len(t, cc.UpstreamCards, 1)
	assert.Equal(t, "b", cc.UpstreamCards[0].Key)
	assert.Empty(t, cc.DownstreamCards)

	cc, err = e.GetCardContext(ctx, "b")
	require.NoError(t, err)
	require.Len(t, cc.DownstreamCards, 1)
	assert.Equal(t, "a", cc.DownstreamCards[0].Key)
	assert.Empty(t, cc.UpstreamCards)
}

func TestGetCardContext_NoResolverDegradesToUnresolved(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "x.ts", Symbol: "F"},
		},
	})
	require.NoError(t, err)

	cc, err := e.GetCardContext(ctx, "a")
	require.NoError(t, err)
	require.Len(t, cc.CodeLinks, 1)
	assert.False(t, cc.CodeLinks[0].Resolved)
	assert.Empty(t, cc.CodeLinks[0].Reason)
}

type fakeResolver struct {
	matches map[string][]symbols.Match
}

func (f *fakeResolver) FindSymbols(_ context.Context, name, file string) ([]symbols.Match, error) {
	return f.matches[name], nil
}

func TestGetCardContext_ResolverMarksResolvedOrNotFound(t *testing.T) {
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

	cc, err := e.GetCardContext(ctx, "a")
	require.NoError(t, err)
	require.Len(t, cc.CodeLinks, 2)
	byFile := map[string]api.ResolvedCodeLink{}
	for _, rcl := range cc.CodeLinks {
		byFile[rcl.File] = rcl
	}
	assert.True(t, byFile["x.ts"].Resolved)
	assert.False(t, byFile["y.ts"].Resolved)
	assert.Equal(t, "symbol-not-found", byFile["y.ts"].Reason)
}
