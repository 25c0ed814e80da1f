package graph

import (
	"context"

	"github.com/siherrmann/kgraph/database"
	"github.com/siherrmann/kgraph/model"
)

// TraversalResult contains a node and its distance from the source
type TraversalResult struct {
	Node     *database.Node
	Distance int
	Path     []string // Node names from source to this node
}

// BFS performs breadth-first search from a source entity, following
// relationships in both directions. relations filters the edge types to
// follow, nil follows all. Results come back in increasing distance order,
// the source itself first.
func BFS(ctx context.Context, store database.GraphStore, sourceName string, maxHops int, relations []string) ([]*TraversalResult, error) {
	sourceName = model.SanitizeName(sourceName)

	sourceNode, err := store.GetNode(ctx, sourceName)
	if err != nil {
		return nil, err
	}
	if sourceNode == nil {
		return nil, nil
	}

	follow := make(map[string]bool, len(relations))
	for _, relation := range relations {
		follow[model.NormalizeRelation(relation)] = true
	}

	visited := map[string]bool{sourceName: true}
	queue := []TraversalResult{{
		Node:     sourceNode,
		Distance: 0,
		Path:     []string{sourceName},
	}}

	var results []*TraversalResult
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		results = append(results, &current)

		if current.Distance >= maxHops {
			continue
		}

		edges, err := store.GetEdgesOf(ctx, current.Node.Name)
		if err != nil {
			return nil, err
		}

		for _, edge := range edges {
			if len(follow) > 0 && !follow[edge.Relation] {
				continue
			}
			if visited[edge.OtherName] {
				continue
			}

			neighbor, err := store.GetNode(ctx, edge.OtherName)
			if err != nil || neighbor == nil {
				continue
			}

			visited[edge.OtherName] = true

			path := make([]string, len(current.Path), len(current.Path)+1)
			copy(path, current.Path)
			path = append(path, edge.OtherName)

			queue = append(queue, TraversalResult{
				Node:     neighbor,
				Distance: current.Distance + 1,
				Path:     path,
			})
		}
	}

	return results, nil
}

// Neighborhood returns the names of all entities reachable from source within
// maxHops, excluding the source itself.
func Neighborhood(ctx context.Context, store database.GraphStore, sourceName string, maxHops int) ([]string, error) {
	results, err := BFS(ctx, store, sourceName, maxHops, nil)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, result := range results {
		if result.Distance == 0 {
			continue
		}
		names = append(names, result.Node.Name)
	}
	return names, nil
}
