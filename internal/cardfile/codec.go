// Package cardfile parses and serializes the Markdown+YAML-front-matter
// format of §6: a file of the form "---\n<YAML>\n---\n<body>". The front
// matter ends at the first line that is exactly "---"; the decoded
// fields are then checked for the required values and the status enum.
package cardfile

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/agentic-research/cardgraph/api"
	"github.com/agentic-research/cardgraph/internal/cerr"
)

const delimiter = "---"

// rawFrontMatter mirrors api.CardFile without the body. Duplicate `key:`
// entries are detected before decoding, by checkDuplicateKey.
type rawFrontMatter struct {
	Key         string              `yaml:"key"`
	Summary     string              `yaml:"summary"`
	Status      api.CardStatus      `yaml:"status"`
	Tags        []string            `yaml:"tags,omitempty"`
	Keywords    []string            `yaml:"keywords,omitempty"`
	Relations   []api.RelationInput `yaml:"relations,omitempty"`
	CodeLinks   []api.CodeLink      `yaml:"codeLinks,omitempty"`
	Constraints any                 `yaml:"constraints,omitempty"`
}

// Parse splits content into front matter and body, decodes the YAML, and
// validates the required fields and the status enum. Missing delimiters,
// duplicate `key` mapping entries, invalid YAML, or a status outside the
// fixed enum all surface as *cerr.CardValidationError.
func Parse(content []byte) (*api.CardFile, error) {
	text := string(content)
	if !strings.HasPrefix(text, delimiter+"\n") {
		return nil, &cerr.CardValidationError{Reason: "file must start with '---' front-matter delimiter"}
	}

	rest := text[len(delimiter)+1:]
	end := indexDelimiterLine(rest)
	if end < 0 {
		return nil, &cerr.CardValidationError{Reason: "missing closing '---' front-matter delimiter"}
	}

	fmText := rest[:end]
	body := rest[end:]
	body = strings.TrimPrefix(body, delimiter)
	body = strings.TrimPrefix(body, "\n")

	if err := checkDuplicateKey(fmText); err != nil {
		return nil, err
	}

	var raw rawFrontMatter
	if err := yaml.Unmarshal([]byte(fmText), &raw); err != nil {
		return nil, &cerr.CardValidationError{Reason: "invalid YAML front matter: " + err.Error()}
	}

	if raw.Key == "" {
		return nil, &cerr.CardValidationError{Field: "key", Reason: "required"}
	}
	if raw.Summary == "" {
		return nil, &cerr.CardValidationError{Field: "summary", Reason: "required"}
	}
	if raw.Status == "" {
		raw.Status = api.StatusDraft
	}
	if !raw.Status.IsValid() {
		return nil, &cerr.CardValidationError{Field: "status", Reason: "not one of the fixed enum values"}
	}

	return &api.CardFile{
		Key:         raw.Key,
		Summary:     raw.Summary,
		Status:      raw.Status,
		Tags:        raw.Tags,
		Keywords:    raw.Keywords,
		Relations:   raw.Relations,
		CodeLinks:   raw.CodeLinks,
		Constraints: raw.Constraints,
		Body:        body,
	}, nil
}

// indexDelimiterLine finds the index of the next line that is exactly
// "---" (optionally followed by newline or EOF), returning the index
// of that line's start, or -1 if none exists.
func indexDelimiterLine(s string) int {
	lines := strings.Split(s, "\n")
	offset := 0
	for _, line := range lines {
		if line == delimiter {
			return offset
		}
		offset += len(line) + 1
	}
	return -1
}

// checkDuplicateKey does a coarse scan for more than one top-level `key:`
// mapping entry, since yaml.v3 happily overwrites duplicate struct fields
// without error.
func checkDuplicateKey(fmText string) error {
	count := 0
	for _, line := range strings.Split(fmText, "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == line && strings.HasPrefix(trimmed, "key:") {
			count++
		}
	}
	if count > 1 {
		return &cerr.CardValidationError{Field: "key", Reason: "duplicate key entry in front matter"}
	}
	return nil
}

// Serialize renders a CardFile back to the "---\nYAML\n---\nbody" form,
// omitting absent optional fields. serialize ∘ parse is the identity
// modulo insignificant whitespace (§4.2's round-trip law).
func Serialize(c *api.CardFile) ([]byte, error) {
	raw := rawFrontMatter{
		Key:         c.Key,
		Summary:     c.Summary,
		Status:      c.Status,
		Tags:        c.Tags,
		Keywords:    c.Keywords,
		Relations:   c.Relations,
		CodeLinks:   c.CodeLinks,
		Constraints: c.Constraints,
	}

	fmBytes, err := yaml.Marshal(&raw)
	if err != nil {
		return nil, &cerr.CardValidationError{Reason: "failed to serialize front matter: " + err.Error()}
	}

	var b strings.Builder
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.Write(fmBytes)
	b.WriteString(delimiter)
	b.WriteString("\n")
	b.WriteString(c.Body)

	return []byte(b.String()), nil
}
