package cardops

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cerr"
)

// S3: rename preserves code links under the new key and the old key
// becomes unreachable.
func TestRename_PreservesCodeLinks(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{
		Slug:    "a",
		Summary: "s",
		CodeLinks: []api.CodeLink{
			{Kind: "fn", File: "x.ts", Symbol: "F"},
		},
	})
	require.NoError(t, err)

	_, err = e.Rename(ctx, "a", "b")
	require.NoError(t, err)

	cards, err := e.FindCardsBySymbol(ctx, "F", "")
	require.NoError(t, err)
	require.Len(t, cards, 1)
	assert.Equal(t, "b", cards[0].Key)

	_, err = e.Read(ctx, "a")
	require.Error(t, err)
	var notFound *cerr.CardNotFoundError
	assert.True(t, errors.As(err, &notFound))
}

func TestRename_SamePathRejected(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)

	_, err = e.Rename(ctx, "a", "a")
	require.Error(t, err)
	var samePath *cerr.CardRenameSamePathError
	assert.True(t, errors.As(err, &samePath))
}

func TestRename_TargetAlreadyExists(t *testing.T) {
	e := newTestEngine(t)
	_, err := e.Create(ctx, api.CreateInput{Slug: "a", Summary: "s"})
	require.NoError(t, err)
	_, err = e.Create(ctx, api.CreateInput{Slug: "b", Summary: "s"})
	require.NoError(t, err)

	_, err = e.Rename(ctx, "a", "b")
	require.Error(t, err)
}
