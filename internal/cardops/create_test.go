package cardops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cerr"
)

func TestCreate_ThenGet(t *testing.T) {
	e := newTestEngine(t)

	card, err := e.Create(ctx, api.CreateInput{Slug: "hello", Summary: "Hi"})
	require.NoError(t, err)
	assert.Equal(t, "hello", card.Key)
	assert.Equal(t, api.StatusDraft, card.Status)

	assert.True(t, e.FS.Exists("/cards/hello.card.md"))

	got, err := e.Read(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "Hi", got.Summary)
	assert.Equal(t, api.StatusDraft, got.Status)
}

func TestCreate_DuplicateRejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Create(ctx, api.CreateInput{Slug: "dup", Summary: "first"})
	require.NoError(t, err)

	_, err = e.Create(ctx, api.CreateInput{Slug: "dup", Summary: "second"})
	require.Error(t, err)
	var alreadyExists *cerr.CardAlreadyExistsError
	assert.True(t, errors.As(err, &alreadyExists))
}

func TestCreate_UnknownRelationTypeRejected(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		Relations: []api.RelationInput{
			{Type: "not-a-real-type", Target: "b"},
		},
	})
	require.Error(t, err)
}

func TestCreate_ValidationFailsOversizedSummary(t *testing.T) {
	e := newTestEngine(t)
	big := make([]byte, 600)
	for i := range big {
		big[i] = 'x'
	}

	_, err := e.Create(ctx, api.CreateInput{Slug: "too-long", Summary: string(big)})
	require.Error(t, err)
}
