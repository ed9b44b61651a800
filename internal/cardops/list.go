package cardops

import "context"

// ListCardKeywords and ListCardTags are supplemented read operations:
// the classification repository already supports listing names attached
// to a card (§4.4); these expose that per-card listing through the
// operations layer, so the tool surface isn't create/update-only.

// ListCardKeywords returns the keyword names attached to key.
func (e *Engine) ListCardKeywords(ctx context.Context, key string) ([]string, error) {
	return e.Store.Classifications.FindKeywordsByCard(nil, key)
}

// ListCardTags returns the tag names attached to key.
func (e *Engine) ListCardTags(ctx context.Context, key string) ([]string, error) {
	return e.Store.Classifications.FindTagsByCard(nil, key)
}
