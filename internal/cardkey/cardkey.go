// Package cardkey validates and normalizes card slugs/keys and derives
// their on-disk file path. In the current schema a card's key equals its
// slug; the two names exist because the front-matter codec and the
// operations layer address cards by the same string for different
// reasons (identity vs. filesystem addressing).
package cardkey

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/agentic-research/cardgraph/internal/cerr"
)

// segmentRe matches one path segment: letters, digits, dot, underscore, dash.
var segmentRe = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// CardFileSuffix is the fixed extension for a card file on disk.
const CardFileSuffix = ".card.md"

// Normalize converts backslashes to forward slashes, strips boundary
// slashes, and validates the result against the slug grammar:
//
//	[A-Za-z0-9._-]+(/[A-Za-z0-9._-]+)*
//
// Empty input, leading/trailing slashes after trimming, "..", ".", drive
// letters, and doubled slashes are all rejected.
func Normalize(slug string) (string, error) {
	if slug == "" {
		return "", &cerr.InvalidKeyError{Key: slug, Reason: "empty"}
	}

	s := strings.ReplaceAll(slug, `\`, "/")
	s = strings.Trim(s, "/")
	if s == "" {
		return "", &cerr.InvalidKeyError{Key: slug, Reason: "empty after trimming slashes"}
	}

	if strings.Contains(s, "//") {
		return "", &cerr.InvalidKeyError{Key: slug, Reason: "contains a doubled slash"}
	}

	// A drive letter ("C:") or any colon is never valid in a slug.
	if strings.Contains(s, ":") {
		return "", &cerr.InvalidKeyError{Key: slug, Reason: "contains a colon"}
	}

	segments := strings.Split(s, "/")
	for _, seg := range segments {
		if seg == "." || seg == ".." {
			return "", &cerr.InvalidKeyError{Key: slug, Reason: "contains a '.' or '..' segment"}
		}
		if !segmentRe.MatchString(seg) {
			return "", &cerr.InvalidKeyError{Key: slug, Reason: "segment " + seg + " contains an invalid character"}
		}
	}

	return s, nil
}

// ParseFullKey validates a string already believed to be a full key (e.g.
// read back from front matter or a database row), rejecting empty or
// malformed values. Unlike Normalize, it does not accept backslashes or
// boundary slashes as fixable — a stored key is expected to already be
// canonical, so any deviation is a hard error.
func ParseFullKey(key string) (string, error) {
	if key == "" {
		return "", &cerr.InvalidKeyError{Key: key, Reason: "empty"}
	}
	normalized, err := Normalize(key)
	if err != nil {
		return "", err
	}
	if normalized != key {
		return "", &cerr.InvalidKeyError{Key: key, Reason: "not in normalized form"}
	}
	return key, nil
}

// BuildPath derives the absolute file path for a card's key under dir.
func BuildPath(dir, key string) string {
	return filepath.Join(dir, key+CardFileSuffix)
}

// KeyFromPath derives the key a filename implies, stripping dir and the
// .card.md suffix. Used by validate/sync to detect key/filename drift.
func KeyFromPath(dir, path string) (string, bool) {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if !strings.HasSuffix(rel, CardFileSuffix) {
		return "", false
	}
	return strings.TrimSuffix(rel, CardFileSuffix), true
}
