package cardops

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/stretchr/testify/require"

	"github.com/agentic-research/cardgraph/internal/fsio"
	"github.com/agentic-research/cardgraph/internal/store"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "cards.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	fs := fsio.New(memfs.New())
	return New(st, fs, "/cards")
}

var ctx = context.Background()
