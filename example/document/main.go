package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/siherrmann/kgraph"
	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

const sampleText = `Dr. Sarah Chen is a cardiologist at Stanford Medical Center who specializes in treating heart disease.

In 2024, she published research on using artificial intelligence for diagnosing arrhythmias,
achieving 95% accuracy with machine learning models.

Her work is funded by the National Heart Institute and she collaborates with
Dr. Michael Torres from MIT on developing new diagnostic tools.`

// Processes a PDF, image or text file into the knowledge graph. Neo4j
// connection settings come from the environment (KGRAPH_NEO4J_URI,
// KGRAPH_NEO4J_USER, KGRAPH_NEO4J_PASSWORD), pipeline settings optionally
// from a YAML file.
func main() {
	configPath := flag.String("config", "", "path to a pipeline config YAML file")
	clear := flag.Bool("clear", false, "clear the graph before processing")
	flag.Parse()

	if flag.NArg() > 1 {
		log.Fatalf("usage: document [-config config.yaml] [-clear] [file]")
	}
	path := flag.Arg(0)

	ctx := context.Background()

	neo4jConfig, err := helper.NewNeo4jConfiguration()
	if err != nil {
		log.Fatalf("Failed to load Neo4j configuration: %v", err)
	}

	var pipelineConfig *model.PipelineConfig
	if *configPath != "" {
		pipelineConfig, err = model.LoadPipelineConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load pipeline configuration: %v", err)
		}
	}

	k, err := kgraph.NewKGraph(ctx, neo4jConfig, pipelineConfig)
	if err != nil {
		log.Fatalf("Failed to create kgraph: %v", err)
	}
	defer k.Close(ctx)

	if *clear {
		if err := k.Clear(ctx); err != nil {
			log.Fatalf("Failed to clear graph: %v", err)
		}
	}

	var summary *model.RunSummary
	if path == "" {
		// No file given, process the built-in sample text
		fmt.Println("No file given, processing sample text")
		path = "sample text"
		summary, err = k.ProcessText(ctx, sampleText)
	} else {
		summary, err = k.ProcessFile(ctx, path)
	}
	if err != nil {
		log.Fatalf("Failed to process %s: %v", path, err)
	}

	fmt.Printf("Processed %s\n", path)
	fmt.Printf("Run %s: %d chunks (%d succeeded, %d failed)\n",
		summary.RunID, len(summary.Chunks), summary.Succeeded, summary.Failed)
	for _, chunk := range summary.Chunks {
		status := "ok"
		if chunk.Outcome == model.ChunkOutcomeFailed {
			status = "failed: " + chunk.Error
		}
		fmt.Printf("  %s (%s, page %d): %s\n", chunk.ChunkID, chunk.Kind, chunk.Page, status)
	}
}
