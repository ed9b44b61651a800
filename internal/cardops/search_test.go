package cardops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
)

func TestSearchCards_MatchesSummaryAndBody(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "Retry with exponential backoff", Body: "covers store contention"})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "b", Summary: "Front-matter codec", Body: "YAML parsing"})
	require.NoError(t, err)

	results, err := e.SearchCards(ctx, "backoff")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "a", results[0].Key)
}

func TestSearchCards_EmptyQueryIsEmpty(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)

	results, err := e.SearchCards(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, results)
}
