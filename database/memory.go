package database

import (
	"context"
	"strings"
	"sync"

	"github.com/siherrmann/kgraph/model"
)

type memoryEdge struct {
	source     string
	target     string
	relation   string
	properties model.Metadata
}

// MemoryGraph is an in-memory GraphStore with the same upsert semantics as the
// Neo4j handler: match by name only, first-write-wins labels, property merge,
// dangling relationships reported as no-ops. Writes are serialized by a mutex,
// which is the store-level atomic merge primitive required for concurrent
// upserts to the same name.
type MemoryGraph struct {
	mu    sync.Mutex
	nodes map[string]*Node
	edges []memoryEdge
}

// NewMemoryGraph creates an empty in-memory graph store
func NewMemoryGraph() *MemoryGraph {
	return &MemoryGraph{
		nodes: make(map[string]*Node),
	}
}

// UpsertEntity creates the node if absent, otherwise merges the properties
// onto the existing node, keeping its original label.
func (g *MemoryGraph) UpsertEntity(ctx context.Context, name string, entityType string, properties model.Metadata) error {
	name = model.SanitizeName(name)
	label := model.SanitizeName(entityType)
	if label == "" {
		label = "Entity"
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[name]
	if !ok {
		node = &Node{
			Name:       name,
			Labels:     []string{label},
			Properties: model.Metadata{"name": name},
		}
		g.nodes[name] = node
	}
	node.Properties = node.Properties.Merge(properties)

	return nil
}

// UpsertRelationship creates or merges a directed edge. Returns false without
// error when either endpoint is absent.
func (g *MemoryGraph) UpsertRelationship(ctx context.Context, source string, target string, relation string, properties model.Metadata) (bool, error) {
	source = model.SanitizeName(source)
	target = model.SanitizeName(target)
	relationLabel := model.NormalizeRelation(relation)

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.nodes[source]; !ok {
		return false, nil
	}
	if _, ok := g.nodes[target]; !ok {
		return false, nil
	}

	for i, edge := range g.edges {
		if edge.source == source && edge.target == target && edge.relation == relationLabel {
			g.edges[i].properties = edge.properties.Merge(properties)
			return true, nil
		}
	}

	g.edges = append(g.edges, memoryEdge{
		source:     source,
		target:     target,
		relation:   relationLabel,
		properties: model.Metadata{}.Merge(properties),
	})

	return true, nil
}

// AttachSummary sets the summary property on the node matching name, no-op if
// absent.
func (g *MemoryGraph) AttachSummary(ctx context.Context, name string, summary string) error {
	name = model.SanitizeName(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	if node, ok := g.nodes[name]; ok {
		node.Properties[SummaryProperty] = summary
	}

	return nil
}

// EntityExists reports whether a node with the given name exists
func (g *MemoryGraph) EntityExists(ctx context.Context, name string) (bool, error) {
	name = model.SanitizeName(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	_, ok := g.nodes[name]
	return ok, nil
}

// GetNode returns a copy of the node with the given name, or nil when absent
func (g *MemoryGraph) GetNode(ctx context.Context, name string) (*Node, error) {
	name = model.SanitizeName(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	node, ok := g.nodes[name]
	if !ok {
		return nil, nil
	}

	return &Node{
		Name:       node.Name,
		Labels:     append([]string{}, node.Labels...),
		Properties: model.Metadata{}.Merge(node.Properties),
	}, nil
}

// GetEdgesOf returns all relationships touching the node with the given name
func (g *MemoryGraph) GetEdgesOf(ctx context.Context, name string) ([]Edge, error) {
	name = model.SanitizeName(name)

	g.mu.Lock()
	defer g.mu.Unlock()

	var edges []Edge
	for _, edge := range g.edges {
		if edge.source == name {
			edges = append(edges, Edge{OtherName: edge.target, Relation: edge.relation})
		} else if edge.target == name {
			edges = append(edges, Edge{OtherName: edge.source, Relation: edge.relation})
		}
	}

	return edges, nil
}

// SearchByProperty returns all nodes whose given property contains term as a
// substring
func (g *MemoryGraph) SearchByProperty(ctx context.Context, property string, term string) ([]*Node, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var nodes []*Node
	for _, node := range g.nodes {
		value, ok := node.Properties[property].(string)
		if ok && strings.Contains(value, term) {
			nodes = append(nodes, &Node{
				Name:       node.Name,
				Labels:     append([]string{}, node.Labels...),
				Properties: model.Metadata{}.Merge(node.Properties),
			})
		}
	}

	return nodes, nil
}

// NodeCount returns the number of nodes in the store
func (g *MemoryGraph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// EdgeCount returns the number of relationships in the store
func (g *MemoryGraph) EdgeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.edges)
}

// Clear removes all nodes and relationships
func (g *MemoryGraph) Clear(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.nodes = make(map[string]*Node)
	g.edges = nil
	return nil
}

// Close is a no-op for the in-memory store
func (g *MemoryGraph) Close(ctx context.Context) error {
	return nil
}

// compile-time check that MemoryGraph implements GraphStore
var _ GraphStore = (*MemoryGraph)(nil)
