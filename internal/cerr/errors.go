// Package cerr defines the typed error kinds of the card engine, in the
// same shape the teacher uses for its own domain errors (see
// writeback.ValidationError): a small struct per kind with a message-
// building Error() method, never a bare errors.New string.
package cerr

import "fmt"

// InvalidKeyError reports a syntactically invalid slug or key.
type InvalidKeyError struct {
	Key    string
	Reason string
}

func (e *InvalidKeyError) Error() string {
	return fmt.Sprintf("invalid key %q: %s", e.Key, e.Reason)
}

// CardValidationError reports malformed front matter or a size-limit violation.
type CardValidationError struct {
	Field  string
	Reason string
}

func (e *CardValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("card validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("card validation failed on field %q: %s", e.Field, e.Reason)
}

// CardNotFoundError reports that no card exists for a given key.
type CardNotFoundError struct {
	Key string
}

func (e *CardNotFoundError) Error() string {
	return fmt.Sprintf("card %q not found", e.Key)
}

// CardAlreadyExistsError reports a create() collision.
type CardAlreadyExistsError struct {
	Key string
}

func (e *CardAlreadyExistsError) Error() string {
	return fmt.Sprintf("card %q already exists", e.Key)
}

// CardRenameSamePathError reports a rename() whose target equals its source.
type CardRenameSamePathError struct {
	Key string
}

func (e *CardRenameSamePathError) Error() string {
	return fmt.Sprintf("rename target for %q is the same path", e.Key)
}

// RelationTypeError reports a relation type outside the configured allow-list.
type RelationTypeError struct {
	Type string
}

func (e *RelationTypeError) Error() string {
	return fmt.Sprintf("relation type %q is not in the allow-list", e.Type)
}

// GildashNotConfiguredError reports a symbol-resolution call with no indexer configured.
type GildashNotConfiguredError struct {
	Operation string
}

func (e *GildashNotConfiguredError) Error() string {
	return fmt.Sprintf("%s requires a configured symbol indexer", e.Operation)
}

// CompensationError reports that a post-commit file failure could not be
// rolled back cleanly: both the original and the compensating action failed.
// This is the one error kind callers should treat as alerting-worthy.
type CompensationError struct {
	Original     error
	Compensation error
}

func (e *CompensationError) Error() string {
	return fmt.Sprintf("compensation failed after write error %v: %v", e.Original, e.Compensation)
}

func (e *CompensationError) Unwrap() []error {
	return []error{e.Original, e.Compensation}
}

// StoreBusyError marks store contention. Internal: concurrency.Retry
// recognizes contention by message text ("database is locked", which the
// driver reports as a plain error, not a typed one), so a StoreBusyError
// is retried only when its wrapped error carries that text. Nothing in
// this module constructs it.
type StoreBusyError struct {
	Err error
}

func (e *StoreBusyError) Error() string {
	return fmt.Sprintf("store busy: %v", e.Err)
}

func (e *StoreBusyError) Unwrap() error {
	return e.Err
}
