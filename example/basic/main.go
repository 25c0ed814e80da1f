package main

import (
	"context"
	"fmt"
	"log"

	"github.com/siherrmann/kgraph"
	"github.com/siherrmann/kgraph/database"
	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

const sampleContent = `Dr. Sarah Chen is a cardiologist at Stanford Medical Center who specializes in treating heart disease.

In 2024, she published research on using artificial intelligence for diagnosing arrhythmias,
achieving 95% accuracy with machine learning models.

Her work is funded by the National Heart Institute and she collaborates with
Dr. Michael Torres from MIT on developing new diagnostic tools.`

func main() {
	ctx := context.Background()

	// Start a test Neo4j container
	teardown, boltURI, err := helper.MustStartNeo4jContainer()
	if err != nil {
		log.Fatalf("Failed to start Neo4j container: %v", err)
	}
	defer teardown(ctx)

	neo4jConfig := &helper.Neo4jConfiguration{
		Uri:      boltURI,
		Username: "neo4j",
		Password: "kgraphtest",
		Database: "neo4j",
	}

	// Defaults expect an Ollama server on localhost:11434
	config := model.DefaultPipelineConfig()

	k, err := kgraph.NewKGraph(ctx, neo4jConfig, &config)
	if err != nil {
		log.Fatalf("Failed to create kgraph: %v", err)
	}
	defer k.Close(ctx)

	fmt.Println("Processing text...")
	summary, err := k.ProcessText(ctx, sampleContent)
	if err != nil {
		log.Fatalf("Failed to process text: %v", err)
	}
	fmt.Printf("Run %s: %d chunks, %d succeeded, %d failed\n",
		summary.RunID, len(summary.Chunks), summary.Succeeded, summary.Failed)

	// Look up one of the extracted entities
	node, err := k.QueryEntity(ctx, "Dr. Sarah Chen")
	if err != nil {
		log.Fatalf("Failed to query entity: %v", err)
	}
	if node != nil {
		fmt.Printf("\nEntity: %s (labels: %v)\n", node.Name, node.Labels)
		if summary, ok := node.Properties[database.SummaryProperty]; ok {
			fmt.Printf("Summary: %v\n", summary)
		}
	}

	// List its relationships
	edges, err := k.EntityRelationships(ctx, "Dr. Sarah Chen")
	if err != nil {
		log.Fatalf("Failed to query relationships: %v", err)
	}
	fmt.Println("\nRelationships:")
	for _, edge := range edges {
		fmt.Printf("  -[%s]-> %s\n", edge.Relation, edge.OtherName)
	}

	// Search the entity summaries
	results, err := k.SearchSummaries(ctx, "heart disease")
	if err != nil {
		log.Fatalf("Failed to search summaries: %v", err)
	}
	fmt.Printf("\nEntities mentioning 'heart disease': %d\n", len(results))
	for _, result := range results {
		fmt.Printf("  %s\n", result.Name)
	}
}
