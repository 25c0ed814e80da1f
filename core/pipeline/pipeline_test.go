package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/siherrmann/kgraph/database"
	"github.com/siherrmann/kgraph/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// failingStore rejects existence checks to simulate an unreachable graph
// database.
type failingStore struct {
	*database.MemoryGraph
}

func (f *failingStore) EntityExists(ctx context.Context, name string) (bool, error) {
	return false, errors.New("store down")
}

func testPipeline(completer *fakeCompleter) (*Pipeline, *database.MemoryGraph) {
	store := database.NewMemoryGraph()
	reconciler := NewReconciler(store, slog.Default())
	pipeline := NewPipeline(TextSegmenter(), NewExtractor(completer), reconciler, slog.Default())
	pipeline.SetVision(NewVisionProcessor(completer))
	return pipeline, store
}

func TestPipelineProcessDocument(t *testing.T) {
	ctx := context.Background()

	t.Run("Text document ends up in the graph", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex}}
		pipeline, store := testPipeline(completer)

		summary, err := pipeline.ProcessDocument(ctx, "Dr. Sarah Chen works at Stanford Medical Center.")

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 0, summary.Failed)
		assert.Equal(t, 2, store.NodeCount())
		assert.Equal(t, 1, store.EdgeCount())

		edges, err := store.GetEdgesOf(ctx, "Dr. Sarah Chen")
		require.NoError(t, err)
		require.Len(t, edges, 1)
		assert.Equal(t, "WORKS_AT", edges[0].Relation)

		node, err := store.GetNode(ctx, "Dr. Sarah Chen")
		require.NoError(t, err)
		assert.Equal(t, "Cardiologist at Stanford Medical Center.", node.Properties[database.SummaryProperty])
	})

	t.Run("Unparseable model output degrades to an empty load", func(t *testing.T) {
		// Both model calls return garbage, the chunk still completes with
		// empty structures and nothing lands in the store
		completer := &fakeCompleter{responses: []string{"no json here", "still no json"}}
		pipeline, store := testPipeline(completer)

		summary, err := pipeline.ProcessDocument(ctx, "Broken paragraph.")

		require.NoError(t, err)
		require.Len(t, summary.Chunks, 1)
		assert.Equal(t, model.ChunkOutcomeSucceeded, summary.Chunks[0].Outcome)
		assert.Empty(t, summary.Chunks[0].Error)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 0, summary.Failed)
		assert.Len(t, completer.calls, 2)
		assert.Equal(t, 0, store.NodeCount())
	})

	t.Run("Degraded chunk does not starve the following chunks", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{
			"no json here",
			"still no json",
			cannedTriples,
			cannedIndex,
		}}
		pipeline, store := testPipeline(completer)

		summary, err := pipeline.ProcessDocument(ctx, "Broken paragraph.\n\nDr. Sarah Chen works at Stanford Medical Center.")

		require.NoError(t, err)
		assert.Equal(t, 2, summary.Succeeded)
		assert.Equal(t, 0, summary.Failed)
		assert.Equal(t, 2, store.NodeCount())
	})

	t.Run("Store failure marks the chunk as failed", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex}}
		store := &failingStore{MemoryGraph: database.NewMemoryGraph()}
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(TextSegmenter(), NewExtractor(completer), reconciler, slog.Default())

		summary, err := pipeline.ProcessDocument(ctx, "Dr. Sarah Chen works at Stanford Medical Center.")

		require.NoError(t, err)
		require.Len(t, summary.Chunks, 1)
		assert.Equal(t, model.ChunkOutcomeFailed, summary.Chunks[0].Outcome)
		assert.Contains(t, summary.Chunks[0].Error, "store down")
		assert.Equal(t, 0, summary.Succeeded)
		assert.Equal(t, 1, summary.Failed)
	})

	t.Run("Chunk ids are stable composites of source and position", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex, cannedTriples, cannedIndex}}
		store := database.NewMemoryGraph()
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(nil, NewExtractor(completer), reconciler, slog.Default())

		chunks := []*model.Chunk{
			{Kind: model.ChunkKindText, Content: "one", Position: 0},
			{Kind: model.ChunkKindText, Content: "two", Position: 1},
		}

		summary, err := pipeline.ProcessChunks(ctx, "report.pdf", chunks)

		require.NoError(t, err)
		require.Len(t, summary.Chunks, 2)
		assert.Equal(t, "report_chunk_0", summary.Chunks[0].ChunkID)
		assert.Equal(t, "report_chunk_1", summary.Chunks[1].ChunkID)
	})

	t.Run("Segmentation failure is returned as an error", func(t *testing.T) {
		store := database.NewMemoryGraph()
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(ImageSegmenter(), NewExtractor(&fakeCompleter{}), reconciler, slog.Default())

		_, err := pipeline.ProcessDocument(ctx, filepath.Join(t.TempDir(), "missing.png"))

		assert.Error(t, err)
	})
}

func TestPipelineImageChunks(t *testing.T) {
	ctx := context.Background()

	t.Run("Image chunk creates anchor with linked entities", func(t *testing.T) {
		// Call order: detailed description, entity summary, entity extraction
		// over the description
		completer := &fakeCompleter{responses: []string{
			"A portrait of Dr. Sarah Chen at Stanford Medical Center.",
			`{"entity_name": "Figure_1", "entity_type": "image", "key_entities": ["Dr. Sarah Chen"]}`,
			cannedTriples,
		}}
		store := database.NewMemoryGraph()
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(nil, NewExtractor(completer), reconciler, slog.Default())
		pipeline.SetVision(NewVisionProcessor(completer))

		chunks := []*model.Chunk{
			{Kind: model.ChunkKindText, Content: "Surrounding paragraph.", Position: 0},
			{Kind: model.ChunkKindImage, Content: "figure.png", Data: []byte{0x89, 0x50}, Position: 1},
		}
		// Only process the image chunk so the text path needs no responses
		summary, err := pipeline.ProcessChunks(ctx, "paper.pdf", chunks[1:])

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Succeeded)

		anchor, err := store.GetNode(ctx, "Image_paper_chunk_1")
		require.NoError(t, err)
		require.NotNil(t, anchor)
		assert.Contains(t, anchor.Labels, model.MultimodalAnchorType)
		assert.Equal(t, "figure.png", anchor.Properties["image_path"])

		edges, err := store.GetEdgesOf(ctx, "Dr. Sarah Chen")
		require.NoError(t, err)
		relations := make([]string, 0, len(edges))
		for _, edge := range edges {
			relations = append(relations, edge.Relation)
		}
		assert.Contains(t, relations, model.BelongsToRelation)
	})

	t.Run("Precomputed chunk context is preferred over the window", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{"description", "summary", `{"entities": []}`}}
		store := database.NewMemoryGraph()
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(nil, NewExtractor(completer), reconciler, slog.Default())
		pipeline.SetVision(NewVisionProcessor(completer))

		chunks := []*model.Chunk{
			{Kind: model.ChunkKindText, Content: "window text", Position: 0},
			{Kind: model.ChunkKindImage, Content: "figure.png", Data: []byte{0x89}, Position: 1, Context: "precomputed context"},
		}

		_, err := pipeline.ProcessChunks(ctx, "doc.pdf", chunks)

		require.NoError(t, err)
		// First vision prompt embeds the precomputed context
		found := false
		for _, call := range completer.calls {
			if len(call) > 0 && len(call[0].Images) > 0 {
				assert.Contains(t, call[0].Content, "precomputed context")
				assert.NotContains(t, call[0].Content, "window text")
				found = true
				break
			}
		}
		assert.True(t, found, "expected a vision call with image payload")
	})

	t.Run("Vision failure still anchors the image with the sentinel", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("model offline")}
		store := database.NewMemoryGraph()
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(nil, NewExtractor(completer), reconciler, slog.Default())
		pipeline.SetVision(NewVisionProcessor(completer))

		chunks := []*model.Chunk{
			{Kind: model.ChunkKindImage, Content: "figure.png", Data: []byte{0x89, 0x50}, Position: 0},
		}

		summary, err := pipeline.ProcessChunks(ctx, "doc.pdf", chunks)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Succeeded)
		assert.Equal(t, 0, summary.Failed)

		anchor, err := store.GetNode(ctx, "Image_doc_chunk_0")
		require.NoError(t, err)
		require.NotNil(t, anchor)
		assert.Equal(t, FailedProcessingText, anchor.Properties["detailed_description"])
	})

	t.Run("Image chunk without vision processor fails but run continues", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex}}
		store := database.NewMemoryGraph()
		reconciler := NewReconciler(store, slog.Default())
		pipeline := NewPipeline(nil, NewExtractor(completer), reconciler, slog.Default())

		chunks := []*model.Chunk{
			{Kind: model.ChunkKindImage, Content: "figure.png", Position: 0},
			{Kind: model.ChunkKindText, Content: "text", Position: 1},
		}

		summary, err := pipeline.ProcessChunks(ctx, "doc.pdf", chunks)

		require.NoError(t, err)
		assert.Equal(t, 1, summary.Failed)
		assert.Equal(t, 1, summary.Succeeded)
	})
}

func TestPipelineArchiving(t *testing.T) {
	ctx := context.Background()

	t.Run("Archive records are written per chunk", func(t *testing.T) {
		dir := t.TempDir()
		archiver, err := NewArchiver(dir)
		require.NoError(t, err)

		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex}}
		pipeline, _ := testPipeline(completer)
		pipeline.SetArchive(archiver)

		_, err = pipeline.ProcessDocument(ctx, "Dr. Sarah Chen works at Stanford Medical Center.")

		require.NoError(t, err)
		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Contains(t, entries[0].Name(), "knowledge_graph_data_")
	})
}
