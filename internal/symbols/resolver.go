// Package symbols models the external code-symbol indexer as an opaque
// capability (§1, "gildash"): this package only defines the contract
// and a thin HTTP client for it, never a symbol index of its own. The
// teacher treats its native search engine the same way in
// internal/leyline/client.go — a Client type wrapping a handle that is
// only ever constructed when the capability is configured, with every
// method free to fail independently of the rest of the program. That
// repo's handle is an in-process cgo pointer; gildash is a genuinely
// external, out-of-process service, so the concrete client here talks
// HTTP instead of cgo, but the "opaque, optional, independently
// fallible" shape carries over unchanged.
package symbols

import "context"

// Match is one symbol the indexer reports for a (name, file) query.
type Match struct {
	Name string
	File string
	Kind string
}

// Resolver is the capability internal/cardops depends on. A nil
// Resolver means no indexer is configured; callers that need one raise
// *cerr.GildashNotConfiguredError rather than calling through a nil
// interface.
type Resolver interface {
	// FindSymbols returns every symbol the indexer knows about with the
	// given name, optionally narrowed to one file. Order is whatever the
	// indexer returns; callers needing the canonical match take the
	// first entry whose File equals the query file exactly.
	FindSymbols(ctx context.Context, name, file string) ([]Match, error)
}
