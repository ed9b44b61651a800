package cardops

import "context"

// PruneOrphans exposes ClassificationRepo.PruneOrphans as a first-class
// operation rather than a repository-internal method. A supplemented
// feature: the repository method exists per §4.4, this just gives it a
// direct caller in the operations layer (and, through that, the tool
// surface and CLI).
func (e *Engine) PruneOrphans(ctx context.Context) error {
	return e.Store.Classifications.PruneOrphans(nil)
}
