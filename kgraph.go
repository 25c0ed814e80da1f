package kgraph

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/kgraph/core/graph"
	"github.com/siherrmann/kgraph/core/pipeline"
	"github.com/siherrmann/kgraph/database"
	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/llm"
	"github.com/siherrmann/kgraph/model"
)

// KGraph provides a unified interface for building and querying document
// knowledge graphs
type KGraph struct {
	Store    database.GraphStore
	Pipeline *pipeline.Pipeline
	Config   *model.PipelineConfig
	// Logging
	log *slog.Logger
}

// NewKGraph creates a new KGraph instance backed by Neo4j, with the extraction
// pipeline wired to an Ollama server. A nil pipelineConfig uses the defaults.
func NewKGraph(ctx context.Context, neo4jConfig *helper.Neo4jConfiguration, pipelineConfig *model.PipelineConfig) (*KGraph, error) {
	// Logger
	opts := helper.PrettyHandlerOptions{
		SlogOpts: slog.HandlerOptions{
			Level: slog.LevelInfo,
		},
	}
	logger := slog.New(helper.NewPrettyHandler(os.Stdout, opts))

	if pipelineConfig == nil {
		defaults := model.DefaultPipelineConfig()
		pipelineConfig = &defaults
	}

	store, err := database.NewGraphDBHandler(ctx, neo4jConfig, logger)
	if err != nil {
		return nil, helper.NewError("create graph store", err)
	}

	return newKGraph(store, pipelineConfig, logger)
}

// NewKGraphWithStore creates a KGraph on an already constructed store. Used
// for in-memory graphs and custom store implementations.
func NewKGraphWithStore(store database.GraphStore, pipelineConfig *model.PipelineConfig, logger *slog.Logger) (*KGraph, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if pipelineConfig == nil {
		defaults := model.DefaultPipelineConfig()
		pipelineConfig = &defaults
	}
	return newKGraph(store, pipelineConfig, logger)
}

func newKGraph(store database.GraphStore, config *model.PipelineConfig, logger *slog.Logger) (*KGraph, error) {
	completer, err := llm.NewOllama(config.Model, config.BaseURL)
	if err != nil {
		return nil, helper.NewError("create completion client", err)
	}
	completer.SetTemperature(config.Temperature)

	visionCompleter, err := llm.NewOllama(config.VisionModel, config.BaseURL)
	if err != nil {
		return nil, helper.NewError("create vision client", err)
	}
	visionCompleter.SetTemperature(config.Temperature)

	extractor := pipeline.NewExtractor(completer)
	reconciler := pipeline.NewReconciler(store, logger)

	p := pipeline.NewPipeline(nil, extractor, reconciler, logger)
	p.SetVision(pipeline.NewVisionProcessor(visionCompleter))
	// Delta zero is a valid window width, configs always carry the loader
	// defaults so a non-negative value is deliberate
	if config.Delta >= 0 {
		p.Delta = config.Delta
	}
	if config.ArchiveDir != "" {
		archiver, err := pipeline.NewArchiver(config.ArchiveDir)
		if err != nil {
			return nil, helper.NewError("create archiver", err)
		}
		p.SetArchive(archiver)
	}

	return &KGraph{
		Store:    store,
		Pipeline: p,
		Config:   config,
		log:      logger,
	}, nil
}

// ProcessText segments raw text into paragraphs and loads the extracted
// knowledge into the graph
func (k *KGraph) ProcessText(ctx context.Context, text string) (*model.RunSummary, error) {
	chunks, err := pipeline.TextSegmenter()(text)
	if err != nil {
		return nil, helper.NewError("segment text", err)
	}
	return k.Pipeline.ProcessChunks(ctx, text, chunks)
}

// ProcessDocument processes an in-memory document's content through the
// paragraph segmenter, using its title for the chunk identifiers
func (k *KGraph) ProcessDocument(ctx context.Context, doc *model.Document) (*model.RunSummary, error) {
	if doc.Content == "" {
		return nil, helper.NewError("process document", fmt.Errorf("document content is empty"))
	}

	chunks, err := pipeline.TextSegmenter()(doc.Content)
	if err != nil {
		return nil, helper.NewError("segment document", err)
	}

	k.log.Info("Processing document", slog.String("rid", doc.RID.String()), slog.String("title", doc.Title), slog.Int("num_chunks", len(chunks)))

	source := doc.Title
	if source == "" {
		source = doc.Source
	}
	return k.Pipeline.ProcessChunks(ctx, source, chunks)
}

// ProcessPDF segments a PDF into text and image chunks, persists extracted
// images and loads the extracted knowledge into the graph.
func (k *KGraph) ProcessPDF(ctx context.Context, path string) (*model.RunSummary, error) {
	segmenter := pipeline.PDFSegmenter(k.Config.PlaceImagesMidpage, k.log)
	chunks, err := segmenter(path)
	if err != nil {
		return nil, helper.NewError("segment pdf", err)
	}

	if k.Config.ImageDir != "" {
		err = pipeline.SaveImages(chunks, k.Config.ImageDir)
		if err != nil {
			return nil, helper.NewError("save extracted images", err)
		}
	}

	k.log.Info("Segmented PDF", slog.String("path", path), slog.Int("num_chunks", len(chunks)))

	return k.Pipeline.ProcessChunks(ctx, path, chunks)
}

// ProcessImage processes a standalone image file as a single-chunk document
func (k *KGraph) ProcessImage(ctx context.Context, path string) (*model.RunSummary, error) {
	chunks, err := pipeline.ImageSegmenter()(path)
	if err != nil {
		return nil, helper.NewError("segment image", err)
	}
	return k.Pipeline.ProcessChunks(ctx, path, chunks)
}

// ProcessFile routes a file to the matching processor by extension. PDFs go
// through the PDF segmenter, common image formats through the image path and
// plain text files through the paragraph segmenter.
func (k *KGraph) ProcessFile(ctx context.Context, path string) (*model.RunSummary, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, helper.NewError("process file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return k.ProcessPDF(ctx, path)
	case ".jpg", ".jpeg", ".png", ".bmp", ".gif":
		return k.ProcessImage(ctx, path)
	case ".txt", ".md":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, helper.NewError("read text file", err)
		}
		chunks, err := pipeline.TextSegmenter()(string(data))
		if err != nil {
			return nil, helper.NewError("segment text", err)
		}
		return k.Pipeline.ProcessChunks(ctx, path, chunks)
	default:
		return nil, helper.NewError("process file", fmt.Errorf("unsupported file type %v", filepath.Ext(path)))
	}
}

// QueryEntity returns the node with the given name, or nil when absent
func (k *KGraph) QueryEntity(ctx context.Context, name string) (*database.Node, error) {
	return k.Store.GetNode(ctx, name)
}

// EntityRelationships returns all relationships touching the named entity
func (k *KGraph) EntityRelationships(ctx context.Context, name string) ([]database.Edge, error) {
	return k.Store.GetEdgesOf(ctx, name)
}

// BFSTraversal performs breadth-first search from an entity, optionally
// restricted to the given relation types
func (k *KGraph) BFSTraversal(ctx context.Context, name string, maxHops int, relations []string) ([]*graph.TraversalResult, error) {
	return graph.BFS(ctx, k.Store, name, maxHops, relations)
}

// Neighborhood returns the names of all entities within maxHops of the named
// entity
func (k *KGraph) Neighborhood(ctx context.Context, name string, maxHops int) ([]string, error) {
	return graph.Neighborhood(ctx, k.Store, name, maxHops)
}

// SearchSummaries returns all entities whose index summary contains term
func (k *KGraph) SearchSummaries(ctx context.Context, term string) ([]*database.Node, error) {
	return k.Store.SearchByProperty(ctx, database.SummaryProperty, term)
}

// Clear removes all nodes and relationships from the graph
func (k *KGraph) Clear(ctx context.Context) error {
	return k.Store.Clear(ctx)
}

// Close closes the underlying store connection
func (k *KGraph) Close(ctx context.Context) error {
	return k.Store.Close(ctx)
}
