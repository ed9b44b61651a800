// Package api holds the public data types shared between the storage
// engine, the operations layer, and the outward tool surface.
package api

import "time"

// CardStatus is the fixed lifecycle enum for a card.
type CardStatus string

const (
	StatusDraft        CardStatus = "draft"
	StatusAccepted     CardStatus = "accepted"
	StatusImplementing CardStatus = "implementing"
	StatusImplemented  CardStatus = "implemented"
	StatusDeprecated   CardStatus = "deprecated"
)

// ValidStatuses lists the enum in lifecycle order, for validation and docs.
var ValidStatuses = []CardStatus{
	StatusDraft,
	StatusAccepted,
	StatusImplementing,
	StatusImplemented,
	StatusDeprecated,
}

// IsValid reports whether s is one of the fixed enum values.
func (s CardStatus) IsValid() bool {
	for _, v := range ValidStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Card is the primary entity: a design card as stored in the relational
// index. The auxiliary sets (relations, keywords, tags, code links)
// travel alongside it in CardFile/CardContext, not inline here, since
// the row itself only carries the scalar columns of §6's schema.
type Card struct {
	Key         string     `json:"key"`
	Summary     string     `json:"summary"`
	Status      CardStatus `json:"status"`
	Body        string     `json:"body"`
	Constraints *string    `json:"constraints,omitempty"` // opaque JSON text, never parsed
	FilePath    string     `json:"filePath"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// Relation is a directed typed edge between two cards.
type Relation struct {
	Type       string `json:"type"`
	SrcCardKey string `json:"srcCardKey"`
	DstCardKey string `json:"dstCardKey"`
	IsReverse  bool   `json:"isReverse"`
}

// RelationInput is the author-facing shape: a target key plus a type,
// always forward (isReverse is derived, never accepted from input).
type RelationInput struct {
	Type   string `json:"type" yaml:"type"`
	Target string `json:"target" yaml:"target"`
}

// CodeLink points a card at a symbol in the source tree.
type CodeLink struct {
	CardKey string `json:"cardKey"`
	Kind    string `json:"kind" yaml:"kind"`
	File    string `json:"file" yaml:"file"`
	Symbol  string `json:"symbol" yaml:"symbol"`
}

// CardFile is the full in-memory representation of a card's front matter
// plus body, the unit the codec parses and serializes.
type CardFile struct {
	Key         string          `yaml:"key"`
	Summary     string          `yaml:"summary"`
	Status      CardStatus      `yaml:"status"`
	Tags        []string        `yaml:"tags,omitempty"`
	Keywords    []string        `yaml:"keywords,omitempty"`
	Relations   []RelationInput `yaml:"relations,omitempty"`
	CodeLinks   []CodeLink      `yaml:"codeLinks,omitempty"`
	Constraints any             `yaml:"constraints,omitempty"`
	Body        string          `yaml:"-"`
}

// CreateInput is the payload for creating a new card.
type CreateInput struct {
	Slug        string          `json:"slug"`
	Summary     string          `json:"summary"`
	Status      CardStatus      `json:"status,omitempty"`
	Body        string          `json:"body,omitempty"`
	Tags        []string        `json:"tags,omitempty"`
	Keywords    []string        `json:"keywords,omitempty"`
	Relations   []RelationInput `json:"relations,omitempty"`
	CodeLinks   []CodeLink      `json:"codeLinks,omitempty"`
	Constraints any             `json:"constraints,omitempty"`
}

// OptField is a tri-state field for update: absent (leave as-is), present
// with a value (replace), or present-but-empty (delete), matching §4.7's
// "undefined keeps, null/empty deletes" composition rule.
type OptField[T any] struct {
	Set   bool
	Value T
}

// UpdateInput is the payload for update. Each field is optional; a field
// left at its zero OptField (Set == false) is untouched.
type UpdateInput struct {
	Summary     OptField[string]          `json:"-"`
	Body        OptField[string]          `json:"-"`
	Tags        OptField[[]string]        `json:"-"`
	Keywords    OptField[[]string]        `json:"-"`
	Relations   OptField[[]RelationInput] `json:"-"`
	CodeLinks   OptField[[]CodeLink]      `json:"-"`
	Constraints OptField[any]             `json:"-"`
}

// CardContext is the aggregate view returned by getCardContext: the card,
// its resolved code links, and the cards reachable one hop up/down the
// relation graph.
type CardContext struct {
	Card            Card               `json:"card"`
	CodeLinks       []ResolvedCodeLink `json:"codeLinks"`
	UpstreamCards   []Card             `json:"upstreamCards"`
	DownstreamCards []Card             `json:"downstreamCards"`
}

// ResolvedCodeLink pairs a stored code link with its resolution outcome.
type ResolvedCodeLink struct {
	CodeLink `json:",inline"`
	Resolved bool   `json:"resolved"`
	Reason   string `json:"reason,omitempty"` // "symbol-not-found" | "file-not-indexed"
}

// Direction constrains a graph traversal.
type Direction string

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
	DirectionBoth     Direction = "both"
)

// GraphOptions configures getRelationGraph.
type GraphOptions struct {
	MaxDepth  int // 0 means "no traversal", negative means unbounded
	Direction Direction
}

// GraphNode is one visited node in a relation-graph traversal.
type GraphNode struct {
	Key          string    `json:"key"`
	Depth        int       `json:"depth"`
	RelationType string    `json:"relationType"`
	Direction    Direction `json:"direction"`
}

// ValidateReport is the read-only reconciliation view.
type ValidateReport struct {
	StaleDBRows   []string      `json:"staleDbRows"`  // filePath of rows whose file is gone
	OrphanFiles   []string      `json:"orphanFiles"`  // *.card.md paths with no row
	KeyMismatches []KeyMismatch `json:"keyMismatches"`
}

// KeyMismatch records a row whose key disagrees with its filename-derived key.
type KeyMismatch struct {
	FilePath string `json:"filePath"`
	RowKey   string `json:"rowKey"`
	FileKey  string `json:"fileKey"`
}

// SyncFailure is one bulkSync failure entry.
type SyncFailure struct {
	FilePath string `json:"filePath"`
	Error    string `json:"error"`
}

// BulkSyncReport summarizes a directory sync.
type BulkSyncReport struct {
	Succeeded int           `json:"succeeded"`
	Failures  []SyncFailure `json:"failures"`
}

// CodeLinkValidation is one entry of validateCodeLinks's report.
type CodeLinkValidation struct {
	CodeLink `json:",inline"`
	Status   string `json:"status"` // "ok" | "symbol-not-found" | "file-not-indexed"
}
