package model

import "strings"

// Relationship represents a directed, typed edge between two named entities.
// Source and target are entity names; creation is a no-op when either endpoint
// is missing from the store.
type Relationship struct {
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	Relation   string   `json:"relation"`
	Properties Metadata `json:"properties,omitempty"`
}

// NormalizeRelation converts a relation token to the upper-cased, sanitized
// form used as the edge label (e.g. "works at" -> "WORKS_AT").
func NormalizeRelation(relation string) string {
	return strings.ToUpper(SanitizeName(strings.TrimSpace(relation)))
}
