// Package metrics computes descriptive statistics over the flat response table.
//
// Every function is a single synchronous pass over an in-memory slice. Missing
// answers (NULL, blank or the configured sentinel) are never dropped: they are
// counted under an explicit unknown bucket so that bucket counts always add up
// to the group total.
package metrics

import (
	"strings"

	"gopkg.in/guregu/null.v3"
)

const (
	DefaultUnknownLabel = "Unknown"
	DefaultOtherLabel   = "Other"
	DefaultMissingValue = "-1"
)

// Classifier assigns an answer to a category
type Classifier interface {
	Classify(answer null.String) string
}

// Missing describes which answers count as absent
type Missing struct {
	Sentinel string // e.g. "-1" in the OSMI data
	Label    string // bucket name for absent answers
}

// DefaultMissing matches the OSMI conventions
func DefaultMissing() Missing {
	return Missing{Sentinel: DefaultMissingValue, Label: DefaultUnknownLabel}
}

// Is reports whether the answer is absent
func (m Missing) Is(answer null.String) bool {
	if !answer.Valid {
		return true
	}
	text := strings.TrimSpace(answer.String)
	return text == "" || (m.Sentinel != "" && text == m.Sentinel)
}

func (m Missing) label() string {
	if m.Label == "" {
		return DefaultUnknownLabel
	}
	return m.Label
}

// IdentityClassifier uses the trimmed answer text as the category
type IdentityClassifier struct {
	Missing Missing
}

// Classify implements Classifier
func (c IdentityClassifier) Classify(answer null.String) string {
	if c.Missing.Is(answer) {
		return c.Missing.label()
	}
	return strings.TrimSpace(answer.String)
}

// MappingClassifier lower-cases the answer and looks it up in Mapping.
// Answers without an entry fall into Other.
type MappingClassifier struct {
	Mapping map[string]string
	Other   string
	Missing Missing
}

// NewMappingClassifier normalizes the mapping keys so lookups are case-insensitive
func NewMappingClassifier(mapping map[string]string, other string, missing Missing) MappingClassifier {
	normalized := make(map[string]string, len(mapping))
	for k, v := range mapping {
		normalized[strings.ToLower(strings.TrimSpace(k))] = v
	}
	if other == "" {
		other = DefaultOtherLabel
	}
	return MappingClassifier{Mapping: normalized, Other: other, Missing: missing}
}

// Classify implements Classifier
func (c MappingClassifier) Classify(answer null.String) string {
	if c.Missing.Is(answer) {
		return c.Missing.label()
	}
	if category, ok := c.Mapping[strings.ToLower(strings.TrimSpace(answer.String))]; ok {
		return category
	}
	if c.Other == "" {
		return DefaultOtherLabel
	}
	return c.Other
}

// ClassifierFor picks a mapping classifier when a mapping is given and the
// identity classifier otherwise
func ClassifierFor(mapping map[string]string, other string, missing Missing) Classifier {
	if len(mapping) == 0 {
		return IdentityClassifier{Missing: missing}
	}
	return NewMappingClassifier(mapping, other, missing)
}
