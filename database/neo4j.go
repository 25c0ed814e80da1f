package database

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

// GraphDBHandler is the Neo4j backed GraphStore implementation
type GraphDBHandler struct {
	driver neo4j.DriverWithContext
	config *helper.Neo4jConfiguration
	logger *slog.Logger
}

// NewGraphDBHandler creates a new Neo4j graph store handler. It verifies
// connectivity immediately so an unreachable store surfaces at startup rather
// than on the first chunk.
func NewGraphDBHandler(ctx context.Context, config *helper.Neo4jConfiguration, logger *slog.Logger) (*GraphDBHandler, error) {
	if config == nil {
		return nil, helper.NewError("neo4j configuration validation", fmt.Errorf("configuration is nil"))
	}

	auth := neo4j.BasicAuth(config.Username, config.Password, "")
	driver, err := neo4j.NewDriverWithContext(config.Uri, auth)
	if err != nil {
		return nil, helper.NewError("create neo4j driver", err)
	}

	if err := driver.VerifyConnectivity(ctx); err != nil {
		driver.Close(ctx)
		return nil, helper.NewError("connect to neo4j", err)
	}

	logger.Info("Initialized GraphDBHandler", slog.String("uri", config.Uri))

	return &GraphDBHandler{
		driver: driver,
		config: config,
		logger: logger,
	}, nil
}

// Close closes the underlying driver
func (h *GraphDBHandler) Close(ctx context.Context) error {
	return h.driver.Close(ctx)
}

func (h *GraphDBHandler) executeWrite(ctx context.Context, work neo4j.ManagedTransactionWork) (interface{}, error) {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: h.config.Database})
	defer session.Close(ctx)

	return session.ExecuteWrite(ctx, work)
}

func (h *GraphDBHandler) executeRead(ctx context.Context, work neo4j.ManagedTransactionWork) (interface{}, error) {
	session := h.driver.NewSession(ctx, neo4j.SessionConfig{DatabaseName: h.config.Database})
	defer session.Close(ctx)

	return session.ExecuteRead(ctx, work)
}

// UpsertEntity creates the node if no node with this name exists, otherwise it
// merges the given properties onto the existing node. MERGE matches on the
// name property alone, so the label of an existing node is never changed.
func (h *GraphDBHandler) UpsertEntity(ctx context.Context, name string, entityType string, properties model.Metadata) error {
	name = model.SanitizeName(name)
	label := model.SanitizeName(entityType)
	if label == "" {
		label = "Entity"
	}
	if properties == nil {
		properties = model.Metadata{}
	}

	// The label cannot be parameterized in Cypher, it is sanitized above.
	query := fmt.Sprintf("MERGE (e {name: $name}) ON CREATE SET e:%s SET e += $props RETURN e", label)

	_, err := h.executeWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{
			"name":  name,
			"props": map[string]interface{}(properties),
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return helper.NewError("upsert entity", err)
	}

	return nil
}

// UpsertRelationship creates or merges a directed edge between two existing
// nodes. It returns false without error when either endpoint is absent.
func (h *GraphDBHandler) UpsertRelationship(ctx context.Context, source string, target string, relation string, properties model.Metadata) (bool, error) {
	source = model.SanitizeName(source)
	target = model.SanitizeName(target)
	relationLabel := model.NormalizeRelation(relation)
	if properties == nil {
		properties = model.Metadata{}
	}

	query := fmt.Sprintf(`
		MATCH (s {name: $source})
		MATCH (t {name: $target})
		MERGE (s)-[r:%s]->(t)
		SET r += $props
		RETURN r`, relationLabel)

	result, err := h.executeWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{
			"source": source,
			"target": target,
			"props":  map[string]interface{}(properties),
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return false, helper.NewError("upsert relationship", err)
	}

	records := result.([]*neo4j.Record)
	return len(records) > 0, nil
}

// AttachSummary sets the searchable summary property on the node matching
// name. It is a no-op when the node is absent.
func (h *GraphDBHandler) AttachSummary(ctx context.Context, name string, summary string) error {
	name = model.SanitizeName(name)

	query := fmt.Sprintf("MATCH (e {name: $name}) SET e.%s = $summary RETURN e", SummaryProperty)

	_, err := h.executeWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, query, map[string]interface{}{
			"name":    name,
			"summary": summary,
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return helper.NewError("attach summary", err)
	}

	return nil
}

// EntityExists reports whether a node with the given name exists
func (h *GraphDBHandler) EntityExists(ctx context.Context, name string) (bool, error) {
	name = model.SanitizeName(name)

	result, err := h.executeRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, "MATCH (n {name: $name}) RETURN count(n) > 0 AS exists", map[string]interface{}{
			"name": name,
		})
		if err != nil {
			return nil, err
		}

		record, err := result.Single(ctx)
		if err != nil {
			return nil, err
		}

		exists, _ := record.Get("exists")
		return exists.(bool), nil
	})
	if err != nil {
		return false, helper.NewError("check entity exists", err)
	}

	return result.(bool), nil
}

// GetNode returns the node with the given name, or nil when absent
func (h *GraphDBHandler) GetNode(ctx context.Context, name string) (*Node, error) {
	name = model.SanitizeName(name)

	result, err := h.executeRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, "MATCH (e {name: $name}) RETURN e", map[string]interface{}{
			"name": name,
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("get node", err)
	}

	records := result.([]*neo4j.Record)
	if len(records) == 0 {
		return nil, nil
	}

	value, ok := records[0].Get("e")
	if !ok {
		return nil, helper.NewError("get node", fmt.Errorf("missing 'e' in result"))
	}

	node := value.(neo4j.Node)
	return &Node{
		Name:       name,
		Labels:     node.Labels,
		Properties: model.Metadata(node.Props),
	}, nil
}

// GetEdgesOf returns all relationships of the node with the given name
func (h *GraphDBHandler) GetEdgesOf(ctx context.Context, name string) ([]Edge, error) {
	name = model.SanitizeName(name)

	result, err := h.executeRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, `
			MATCH (e {name: $name})-[r]-(other)
			RETURN type(r) AS relation, other.name AS other`, map[string]interface{}{
			"name": name,
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("get edges", err)
	}

	records := result.([]*neo4j.Record)
	edges := make([]Edge, 0, len(records))
	for _, record := range records {
		relation, _ := record.Get("relation")
		other, _ := record.Get("other")

		otherName, _ := other.(string)
		edges = append(edges, Edge{
			OtherName: otherName,
			Relation:  relation.(string),
		})
	}

	return edges, nil
}

// SearchByProperty returns all nodes whose given property contains term as a
// substring
func (h *GraphDBHandler) SearchByProperty(ctx context.Context, property string, term string) ([]*Node, error) {
	result, err := h.executeRead(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, `
			MATCH (e)
			WHERE e[$property] CONTAINS $term
			RETURN e`, map[string]interface{}{
			"property": property,
			"term":     term,
		})
		if err != nil {
			return nil, err
		}
		return result.Collect(ctx)
	})
	if err != nil {
		return nil, helper.NewError("search by property", err)
	}

	records := result.([]*neo4j.Record)
	nodes := make([]*Node, 0, len(records))
	for _, record := range records {
		value, ok := record.Get("e")
		if !ok {
			continue
		}

		node := value.(neo4j.Node)
		name, _ := node.Props["name"].(string)
		nodes = append(nodes, &Node{
			Name:       name,
			Labels:     node.Labels,
			Properties: model.Metadata(node.Props),
		})
	}

	return nodes, nil
}

// Clear removes all nodes and relationships. Use with caution.
func (h *GraphDBHandler) Clear(ctx context.Context) error {
	_, err := h.executeWrite(ctx, func(tx neo4j.ManagedTransaction) (interface{}, error) {
		result, err := tx.Run(ctx, "MATCH (n) DETACH DELETE n", nil)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	if err != nil {
		return helper.NewError("clear graph", err)
	}

	h.logger.Info("Cleared graph database")
	return nil
}

// compile-time check that GraphDBHandler implements GraphStore
var _ GraphStore = (*GraphDBHandler)(nil)
