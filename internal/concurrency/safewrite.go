package concurrency

import "github.com/agentic-research/cardgraph/internal/cerr"

// SafeWrite runs the three-step protocol of §4.6 for an operation that
// must keep the database and the file tree consistent:
//
//  1. dbAction runs first (inside its own transaction, typically via
//     Store.WithTx) and produces a result the file step needs — the new
//     row state, a rendered CardFile, whatever the caller's fileAction
//     closes over.
//  2. fileAction runs second, writing (or deleting) the file that
//     mirrors the just-committed row.
//  3. If fileAction fails, compensate runs to undo dbAction's commit.
//     If compensate also fails, the caller gets a *cerr.CompensationError
//     carrying both errors rather than silently leaving the two stores
//     diverged.
//
// dbAction's own error is returned as-is: no file write was attempted,
// so there's nothing to compensate for.
func SafeWrite[T any](dbAction func() (T, error), fileAction func(T) error, compensate func(T) error) (T, error) {
	result, err := dbAction()
	if err != nil {
		return result, err
	}

	if ferr := fileAction(result); ferr != nil {
		if cerrErr := compensate(result); cerrErr != nil {
			return result, &cerr.CompensationError{Original: ferr, Compensation: cerrErr}
		}
		return result, ferr
	}

	return result, nil
}
