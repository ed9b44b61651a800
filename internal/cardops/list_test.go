package cardops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
)

func TestListCardKeywordsAndTags(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{
		Slug:     "a",
		Summary:  "s",
		Keywords: []string{"k2", "k1"},
		Tags:     []string{"t1"},
	})
	require.NoError(t, err)

	keywords, err := e.ListCardKeywords(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"k1", "k2"}, keywords)

	tags, err := e.ListCardTags(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"t1"}, tags)
}

func TestListCardKeywords_NoneAttachedIsEmpty(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)

	keywords, err := e.ListCardKeywords(ctx, "a")
	require.NoError(t, err)
	assert.Empty(t, keywords)
}
