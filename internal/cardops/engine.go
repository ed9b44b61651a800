// Package cardops is the operations layer of §4.7: the ten-odd named
// entry points (create, read, update, rename, delete, sync, export,
// validate, graph traversal, symbol resolution) that compose the
// storage engine, the file-I/O layer, and the concurrency primitives
// into the dual-source consistency protocol described in §1. Create,
// Update, UpdateStatus and Delete go through concurrency.SafeWrite;
// Rename moves the file first and moves it back itself when its
// transaction fails; the sync, export and prune paths write one side
// only. Every per-key section
// goes through an Engine's own concurrency.KeyLock, matching the
// "lock map is per-context" framing of §5.
package cardops

import (
	"context"
	"encoding/json"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cardkey"
	"github.com/agentic-research/cardgraph/internal/cardvalidate"
	"github.com/agentic-research/cardgraph/internal/cerr"
	"github.com/agentic-research/cardgraph/internal/concurrency"
	"github.com/agentic-research/cardgraph/internal/fsio"
	"github.com/agentic-research/cardgraph/internal/store"
	"github.com/agentic-research/cardgraph/internal/symbols"
)

// DefaultRelationTypes is the allow-list used when an Engine is built
// without an explicit one. It covers the dependency/derivation
// vocabulary a design-card corpus typically needs; callers with a
// richer taxonomy pass their own list to New.
var DefaultRelationTypes = []string{
	"depends-on",
	"blocks",
	"relates-to",
	"supersedes",
	"implements",
}

// Engine is one "context" in the spec's sense: it owns a store handle,
// a file-I/O root, a per-key lock map, an optional symbol resolver, and
// the relation-type allow-list, all scoped to its own lifetime (§5,
// "the lock map is per-context... the symbol indexer is per-context and
// closed at teardown").
type Engine struct {
	Store    *store.Store
	FS       *fsio.FS
	CardsDir string

	locks         *concurrency.KeyLock
	retryConfig   concurrency.RetryConfig
	relationTypes map[string]bool
	resolver      symbols.Resolver
}

// Option configures an Engine at construction time.
type Option func(*Engine)

// WithRelationTypes overrides DefaultRelationTypes.
func WithRelationTypes(types []string) Option {
	return func(e *Engine) {
		e.relationTypes = toSet(types)
	}
}

// WithResolver attaches a symbol indexer. Without this option the
// Engine has none, and resolveCardCodeLinks/validateCodeLinks raise
// GildashNotConfiguredError.
func WithResolver(r symbols.Resolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithRetryConfig overrides concurrency.DefaultRetryConfig.
func WithRetryConfig(cfg concurrency.RetryConfig) Option {
	return func(e *Engine) { e.retryConfig = cfg }
}

func toSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

// New builds an Engine rooted at cardsDir, backed by st and fs.
func New(st *store.Store, fs *fsio.FS, cardsDir string, opts ...Option) *Engine {
	e := &Engine{
		Store:         st,
		FS:            fs,
		CardsDir:      cardsDir,
		locks:         concurrency.NewKeyLock(),
		retryConfig:   concurrency.DefaultRetryConfig,
		relationTypes: toSet(DefaultRelationTypes),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) checkRelationTypes(relations []api.RelationInput) error {
	for _, r := range relations {
		if !e.relationTypes[r.Type] {
			return &cerr.RelationTypeError{Type: r.Type}
		}
	}
	return nil
}

func (e *Engine) path(key string) string {
	return cardkey.BuildPath(e.CardsDir, key)
}

func marshalConstraints(v any) (*string, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, &cerr.CardValidationError{Field: "constraints", Reason: "not JSON-serializable: " + err.Error()}
	}
	s := string(b)
	return &s, nil
}

func unmarshalConstraints(s *string) (any, error) {
	if s == nil {
		return nil, nil
	}
	var v any
	if err := json.Unmarshal([]byte(*s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// cardFileFrom builds the on-disk representation of a card from its row
// plus its four auxiliary sets, forward relations only (§4.7's export
// rule applies equally to every write path, not just exportCardToFile).
func cardFileFrom(c api.Card, relations []api.RelationInput, keywords, tags []string, codeLinks []api.CodeLink) (*api.CardFile, error) {
	constraints, err := unmarshalConstraints(c.Constraints)
	if err != nil {
		return nil, err
	}
	return &api.CardFile{
		Key:         c.Key,
		Summary:     c.Summary,
		Status:      c.Status,
		Tags:        tags,
		Keywords:    keywords,
		Relations:   relations,
		CodeLinks:   codeLinks,
		Constraints: constraints,
		Body:        c.Body,
	}, nil
}

func validateInput(summary, body *string, tags, keywords []string, relations []api.RelationInput, codeLinks []api.CodeLink) error {
	return cardvalidate.Validate(cardvalidate.Input{
		Summary:   summary,
		Body:      body,
		Tags:      tags,
		Keywords:  keywords,
		Relations: relations,
		CodeLinks: codeLinks,
	})
}

// syncCardFromFileLocked is the shared compensator used by update,
// updateStatus, and delete: it re-derives DB state from the file that
// is still on disk after a file-side failure. It is SyncCardFromFile
// run with context.Background(), since compensate receives no context.
func (e *Engine) syncCardFromFileLocked(path string) error {
	return e.SyncCardFromFile(context.Background(), path)
}
