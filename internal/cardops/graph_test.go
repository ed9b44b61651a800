package cardops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
)

// S8: a diamond (a -> b -> d, a -> c -> d) visits d exactly once, at
// the depth of whichever branch the BFS reaches it through first.
func TestGetRelationGraph_DiamondVisitsNodeOnce(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "d", Summary: "s"})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "b", Summary: "s", Relations: []api.RelationInput{{Type: "depends-on", Target: "d"}}})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "c", Summary: "s", Relations: []api.RelationInput{{Type: "depends-on", Target: "d"}}})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s", Relations: []api.RelationInput{
		{Type: "depends-on", Target: "b"},
		{Type: "depends-on", Target: "c"},
	}})
	require.NoError(t, err)

	nodes, err := e.GetRelationGraph(ctx, "a", api.GraphOptions{MaxDepth: -1, Direction: api.DirectionForward})
	require.NoError(t, err)

	byKey := map[string]api.GraphNode{}
	for _, n := range nodes {
		byKey[n.Key] = n
	}
	require.Len(t, byKey, 3)
	assert.Equal(t, 1, byKey["b"].Depth)
	assert.Equal(t, 1, byKey["c"].Depth)
	assert.Equal(t, 2, byKey["d"].Depth)

	var dCount int
	for _, n := range nodes {
		if n.Key == "d" {
			dCount++
		}
	}
	assert.Equal(t, 1, dCount)
}

func TestGetRelationGraph_MaxDepthZeroIsEmpty(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)

	nodes, err := e.GetRelationGraph(ctx, "a", api.GraphOptions{MaxDepth: 0})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestGetRelationGraph_MaxDepthLimitsTraversal(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "d", Summary: "s"})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "b", Summary: "s", Relations: []api.RelationInput{{Type: "depends-on", Target: "d"}}})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s", Relations: []api.RelationInput{{Type: "depends-on", Target: "b"}}})
	require.NoError(t, err)

	nodes, err := e.GetRelationGraph(ctx, "a", api.GraphOptions{MaxDepth: 1, Direction: api.DirectionForward})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].Key)
}

func TestGetRelationGraph_MissingRootIsEmpty(t *testing.T) {
	e := newTestEngine(t)
	nodes, err := e.GetRelationGraph(ctx, "nope", api.GraphOptions{MaxDepth: -1})
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestGetRelationGraph_DirectionBackwardFollowsMirrorOnly(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "b", Summary: "s", Relations: []api.RelationInput{{Type: "depends-on", Target: "a"}}})
	require.NoError(t, err)

	nodes, err := e.GetRelationGraph(ctx, "a", api.GraphOptions{MaxDepth: -1, Direction: api.DirectionBackward})
	require.NoError(t, err)
	require.Len(t, nodes, 1)
	assert.Equal(t, "b", nodes[0].Key)
	assert.Equal(t, api.DirectionBackward, nodes[0].Direction)
}
