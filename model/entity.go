package model

import "strings"

// Entity represents a named, typed node destined for the graph store.
// Type is an open, extraction-determined label (Person, Organization,
// MedicalCondition, MultimodalAnchor, ...), not a closed set.
type Entity struct {
	Name       string   `json:"name"`
	Type       string   `json:"type"`
	Properties Metadata `json:"properties,omitempty"`
}

// EntityIndexEntry is a searchable free-text summary attached to an entity
type EntityIndexEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// MultimodalAnchorType is the entity type of anchor nodes representing one
// non-text chunk in the graph.
const MultimodalAnchorType = "MultimodalAnchor"

// BelongsToRelation links an entity extracted from an image description to the
// image's anchor node (direction: entity -> anchor).
const BelongsToRelation = "BELONGS_TO"

// SanitizeName normalizes an entity name or type for use as a graph store
// identifier by replacing whitespace and hyphens with underscores.
func SanitizeName(name string) string {
	sanitized := strings.ReplaceAll(name, " ", "_")
	sanitized = strings.ReplaceAll(sanitized, "-", "_")
	return sanitized
}
