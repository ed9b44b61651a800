// Package cardvalidate enforces the per-field size ceilings of §4.3.
// Fields are checked in a fixed order and the first violation wins,
// mirroring the CHECK-constraint-style field limits of the storage
// schemas in the retrieved pack (length(title) <= 500 and friends) —
// expressed here in Go since the ceilings apply before a row is ever
// built, not as a database constraint.
package cardvalidate

import (
	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cerr"
)

const (
	MaxSummaryLen        = 500
	MaxBodyLen           = 100_000
	MaxListItems         = 100
	MaxKeywordTagLen     = 100
	MaxRelationTargetLen = 200
	MaxCodeLinkSymbolLen = 200
	MaxCodeLinkFileLen   = 500
)

// Input is the subset of fields any create/update payload may carry;
// callers populate only what they intend to validate.
type Input struct {
	Summary   *string
	Body      *string
	Tags      []string
	Keywords  []string
	Relations []api.RelationInput
	CodeLinks []api.CodeLink
}

// Validate checks fields in field order, returning the first violation.
func Validate(in Input) error {
	if in.Summary != nil && len(*in.Summary) > MaxSummaryLen {
		return &cerr.CardValidationError{Field: "summary", Reason: "exceeds maximum length"}
	}
	if in.Body != nil && len(*in.Body) > MaxBodyLen {
		return &cerr.CardValidationError{Field: "body", Reason: "exceeds maximum length"}
	}
	if len(in.Tags) > MaxListItems {
		return &cerr.CardValidationError{Field: "tags", Reason: "exceeds maximum item count"}
	}
	for _, t := range in.Tags {
		if len(t) > MaxKeywordTagLen {
			return &cerr.CardValidationError{Field: "tags", Reason: "item exceeds maximum length"}
		}
	}
	if len(in.Keywords) > MaxListItems {
		return &cerr.CardValidationError{Field: "keywords", Reason: "exceeds maximum item count"}
	}
	for _, k := range in.Keywords {
		if len(k) > MaxKeywordTagLen {
			return &cerr.CardValidationError{Field: "keywords", Reason: "item exceeds maximum length"}
		}
	}
	if len(in.Relations) > MaxListItems {
		return &cerr.CardValidationError{Field: "relations", Reason: "exceeds maximum item count"}
	}
	for _, r := range in.Relations {
		if len(r.Target) > MaxRelationTargetLen {
			return &cerr.CardValidationError{Field: "relations", Reason: "target exceeds maximum length"}
		}
	}
	if len(in.CodeLinks) > MaxListItems {
		return &cerr.CardValidationError{Field: "codeLinks", Reason: "exceeds maximum item count"}
	}
	for _, cl := range in.CodeLinks {
		if len(cl.Symbol) > MaxCodeLinkSymbolLen {
			return &cerr.CardValidationError{Field: "codeLinks", Reason: "symbol exceeds maximum length"}
		}
		if len(cl.File) > MaxCodeLinkFileLen {
			return &cerr.CardValidationError{Field: "codeLinks", Reason: "file exceeds maximum length"}
		}
	}
	return nil
}

// StringPtr is a small helper for call sites building an Input literal.
func StringPtr(s string) *string { return &s }
