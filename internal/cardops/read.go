package cardops

import (
	"context"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
)

// Read implements §4.7's read: normalize, then load straight from the
// file (the source of truth) rather than the index, consistent with
// §5 point 4 ("read goes through the file").
func (e *Engine) Read(ctx context.Context, key string) (api.Card, error) {
	normKey, err := cardkey.Normalize(key)
	if err != nil {
		return api.Card{}, err
	}
	path := e.path(normKey)

	cf, err := e.FS.Read(path)
	if err != nil {
		return api.Card{}, err
	}

	constraints, err := marshalConstraints(cf.Constraints)
	if err != nil {
		return api.Card{}, err
	}

	return api.Card{
		Key:         cf.Key,
		Summary:     cf.Summary,
		Status:      cf.Status,
		Body:        cf.Body,
		Constraints: constraints,
		FilePath:    path,
	}, nil
}
