package database

import (
	"context"

	"github.com/siherrmann/kgraph/model"
)

// Node is a graph store node as returned by queries
type Node struct {
	Name       string         `json:"name"`
	Labels     []string       `json:"labels"`
	Properties model.Metadata `json:"properties,omitempty"`
}

// Edge describes one relationship of a node as returned by GetEdgesOf
type Edge struct {
	OtherName string `json:"other_name"`
	Relation  string `json:"relation"`
}

// SummaryProperty is the node property holding the searchable entity summary
const SummaryProperty = "index_summary"

// GraphStore defines the interface for graph database operations.
//
// All write operations are idempotent upserts keyed by the sanitized entity
// name alone; the entity type only determines the label of a newly created
// node and is never changed by a later upsert (first-write-wins). Upserting a
// relationship whose endpoints are missing is a reported no-op, not an error.
// Implementations must resolve concurrent upserts to the same name with their
// own atomic merge primitive.
type GraphStore interface {
	UpsertEntity(ctx context.Context, name string, entityType string, properties model.Metadata) error
	UpsertRelationship(ctx context.Context, source string, target string, relation string, properties model.Metadata) (bool, error)
	AttachSummary(ctx context.Context, name string, summary string) error
	EntityExists(ctx context.Context, name string) (bool, error)
	GetNode(ctx context.Context, name string) (*Node, error)
	GetEdgesOf(ctx context.Context, name string) ([]Edge, error)
	SearchByProperty(ctx context.Context, property string, term string) ([]*Node, error)
	Clear(ctx context.Context) error
	Close(ctx context.Context) error
}
