package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/symbols"
)

// containsExactMatch reports whether matches contains an entry whose
// (Name, File) equals (symbol, file) exactly, the resolution rule of
// §4.7 ("the first exact (name, file) match is the resolved symbol").
func containsExactMatch(matches []symbols.Match, symbol, file string) bool {
	for _, m := range matches {
		if m.Name == symbol && m.File == file {
			return true
		}
	}
	return false
}

// GetRelationGraph implements §4.7's getRelationGraph: a breadth-first
// traversal over relation edges, emitting each reachable key exactly
// once with the depth and relation type of the edge that first reached
// it. The root itself is never emitted.
func (e *Engine) GetRelationGraph(ctx context.Context, key string, opts api.GraphOptions) ([]api.GraphNode, error) {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return nil, err
	}
	if opts.MaxDepth == 0 {
		return nil, nil
	}
	if _, err := e.Store.Cards.FindByKey(nil, normKey); err != nil {
		return nil, nil // missing root: empty per §4.7
	}
	if opts.Direction == "" {
		opts.Direction = api.DirectionBoth
	}

	type queued struct {
		key   string
		depth int
	}

	visited := map[string]bool{normKey: true}
	queue := []queued{{normKey, 0}}
	var out []api.GraphNode

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if opts.MaxDepth > 0 && cur.depth >= opts.MaxDepth {
			continue
		}

		edges, err := e.Store.Relations.FindByCardKey(nil, cur.key)
		if err != nil {
			return nil, err
		}
		for _, edge := range edges {
			direction := api.DirectionForward
			if edge.IsReverse {
				direction = api.DirectionBackward
			}
			if opts.Direction != api.DirectionBoth && opts.Direction != direction {
				continue
			}

			if _, err := e.Store.Cards.FindByKey(nil, edge.DstCardKey); err != nil {
				continue // orphan edge: target row absent, skip
			}
			if visited[edge.DstCardKey] {
				continue
			}
			visited[edge.DstCardKey] = true

			nextDepth := cur.depth + 1
			out = append(out, api.GraphNode{
				Key:          edge.DstCardKey,
				Depth:        nextDepth,
				RelationType: edge.Type,
				Direction:    direction,
			})
			queue = append(queue, queued{edge.DstCardKey, nextDepth})
		}
	}

	return out, nil
}
