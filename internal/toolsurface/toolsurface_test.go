package toolsurface

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
)

func TestBuildUpdateInput_AbsentFieldStaysUnset(t *testing.T) {
	in, err := buildUpdateInput(map[string]any{"key": "a"})
	require.NoError(t, err)
	assert.False(t, in.Summary.Set)
	assert.False(t, in.Tags.Set)
}

func TestBuildUpdateInput_NullListSetsAndClears(t *testing.T) {
	in, err := buildUpdateInput(map[string]any{"tags": nil})
	require.NoError(t, err)
	assert.True(t, in.Tags.Set)
	assert.Empty(t, in.Tags.Value)
}

func TestBuildUpdateInput_PresentScalarIsSet(t *testing.T) {
	in, err := buildUpdateInput(map[string]any{"summary": "new summary"})
	require.NoError(t, err)
	assert.True(t, in.Summary.Set)
	assert.Equal(t, "new summary", in.Summary.Value)
}

func TestBuildUpdateInput_RelationsDecodeIntoTypedSlice(t *testing.T) {
	in, err := buildUpdateInput(map[string]any{
		"relations": []any{
			map[string]any{"type": "depends-on", "target": "b"},
		},
	})
	require.NoError(t, err)
	require.True(t, in.Relations.Set)
	require.Len(t, in.Relations.Value, 1)
	assert.Equal(t, api.RelationInput{Type: "depends-on", Target: "b"}, in.Relations.Value[0])
}

func TestDecodeArgs_BuildsCreateInputFromRawMap(t *testing.T) {
	args := map[string]any{
		"slug":    "a",
		"summary": "s",
		"tags":    []any{"t1"},
	}
	in, err := decodeArgs[api.CreateInput](args)
	require.NoError(t, err)
	assert.Equal(t, "a", in.Slug)
	assert.Equal(t, "s", in.Summary)
	assert.Equal(t, []string{"t1"}, in.Tags)
}
