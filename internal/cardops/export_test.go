package cardops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
)

func TestExportCardToFile_RegeneratesFromDBState(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{
		Slug:     "a",
		Summary:  "s",
		Keywords: []string{"k1"},
		Tags:     []string{"t1"},
	})
	require.NoError(t, err)

	// Overwrite the file directly so it diverges from DB state.
	require.NoError(t, e.FS.WriteRaw("/cards/a.card.md", []byte("garbage")))

	require.NoError(t, e.ExportCardToFile(ctx, "a"))

	cf, err := e.FS.Read("/cards/a.card.md")
	require.NoError(t, err)
	assert.Equal(t, "a", cf.Key)
	assert.Equal(t, "s", cf.Summary)
	assert.ElementsMatch(t, []string{"k1"}, cf.Keywords)
	assert.ElementsMatch(t, []string{"t1"}, cf.Tags)
}

func TestExportCardToFile_OnlyForwardRelationsWritten(t *testing.T) {
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

	require.NoError(t, e.ExportCardToFile(ctx, "a"))
	cf, err := e.FS.Read("/cards/a.card.md")
	require.NoError(t, err)
	assert.Empty(t, cf.Relations)

	require.NoError(t, e.ExportCardToFile(ctx, "b"))
	cf, err = e.FS.Read("/cards/b.card.md")
	require.NoError(t, err)
	require.Len(t, cf.Relations, 1)
	assert.Equal(t, "a", cf.Relations[0].Target)
}
