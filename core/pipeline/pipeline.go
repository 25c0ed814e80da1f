package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

// ProcessDocument segments the source and processes every chunk in order.
// Per-chunk failures are recorded in the summary and logged, they never abort
// the rest of the document. Only segmentation failure is returned as an error.
func (p *Pipeline) ProcessDocument(ctx context.Context, source string) (*model.RunSummary, error) {
	if p.Segmenter == nil {
		return nil, helper.NewError("processing document", fmt.Errorf("no segmenter configured"))
	}
	chunks, err := p.Segmenter(source)
	if err != nil {
		return nil, helper.NewError("segmenting document", err)
	}
	return p.ProcessChunks(ctx, source, chunks)
}

// ProcessChunks processes an already segmented chunk sequence strictly in
// position order, routing each chunk by kind.
func (p *Pipeline) ProcessChunks(ctx context.Context, source string, chunks []*model.Chunk) (*model.RunSummary, error) {
	summary := model.NewRunSummary(source)
	docName := documentName(source)

	for i, chunk := range chunks {
		chunkID := fmt.Sprintf("%v_chunk_%v", docName, chunk.Position)

		var err error
		switch chunk.Kind {
		case model.ChunkKindText:
			err = p.processTextChunk(ctx, chunkID, chunk)
		case model.ChunkKindImage:
			err = p.processImageChunk(ctx, chunkID, chunks, i)
		case model.ChunkKindTable:
			err = p.processTableChunk(ctx, chunkID, chunks, i)
		default:
			err = fmt.Errorf("unknown chunk kind %v", chunk.Kind)
		}

		result := model.ChunkResult{
			ChunkID: chunkID,
			Kind:    chunk.Kind,
			Page:    chunk.Page,
			Outcome: model.ChunkOutcomeSucceeded,
		}
		if err != nil {
			result.Outcome = model.ChunkOutcomeFailed
			result.Error = err.Error()
			p.log.Error(
				"chunk processing failed",
				slog.String("chunkId", chunkID),
				slog.Int("page", chunk.Page),
				slog.String("error", err.Error()),
			)
		} else {
			p.log.Info("chunk processed", slog.String("chunkId", chunkID), slog.String("kind", string(chunk.Kind)))
		}
		summary.Record(result)
	}

	return summary, nil
}

// processTextChunk runs the two-step extraction over the chunk text and loads
// the result into the graph store. Model call and parse failures are
// recoverable within the chunk: the empty structures flow through archiving
// and loading, so only store errors fail the chunk.
func (p *Pipeline) processTextChunk(ctx context.Context, chunkID string, chunk *model.Chunk) error {
	triples, index, err := p.Extractor.ExtractComplete(ctx, chunk.Content)
	if err != nil {
		p.log.Warn("extraction degraded to empty result", slog.String("chunkId", chunkID), slog.String("error", err.Error()))
	}

	p.archive(&model.ArchiveRecord{ChunkID: chunkID, Triples: triples, KeyValues: index})

	return p.Reconciler.LoadExtraction(ctx, triples, index)
}

// processImageChunk generates the image representations, creates the anchor
// node and links every entity found in the detailed description to it.
func (p *Pipeline) processImageChunk(ctx context.Context, chunkID string, chunks []*model.Chunk, index int) error {
	if p.Vision == nil {
		return fmt.Errorf("no vision processor configured")
	}
	chunk := chunks[index]

	surroundingContext := chunk.Context
	if surroundingContext == "" {
		surroundingContext = SurroundingContext(chunks, index, p.Delta)
	}

	info, err := p.Vision.ExtractImageInfo(ctx, chunk.Content, chunk.Data, surroundingContext)
	if err != nil {
		// Unreadable image files fail the chunk; failed vision calls come
		// back with sentinel descriptions and the chunk continues.
		if info == nil {
			return err
		}
		p.log.Warn("image description degraded", slog.String("chunkId", chunkID), slog.String("error", err.Error()))
	}

	anchorName, err := p.Reconciler.CreateAnchor(ctx, chunkID, info)
	if err != nil {
		return err
	}

	triples, err := p.Extractor.ExtractGraph(ctx, info.DetailedDescription)
	if err != nil {
		p.log.Warn("extraction degraded to empty result", slog.String("chunkId", chunkID), slog.String("error", err.Error()))
	}

	p.archive(&model.ArchiveRecord{ChunkID: chunkID, Triples: triples, ImageInfo: info})

	return p.Reconciler.LinkEntities(ctx, anchorName, triples.Entities)
}

// processTableChunk describes the table with the text model and then treats
// the description like an image description, anchored and linked.
func (p *Pipeline) processTableChunk(ctx context.Context, chunkID string, chunks []*model.Chunk, index int) error {
	if p.Vision == nil {
		return fmt.Errorf("no vision processor configured")
	}
	chunk := chunks[index]

	surroundingContext := chunk.Context
	if surroundingContext == "" {
		surroundingContext = SurroundingContext(chunks, index, p.Delta)
	}

	description, err := p.Vision.DescribeTable(ctx, chunk.Content, surroundingContext)
	if err != nil {
		p.log.Warn("table description degraded", slog.String("chunkId", chunkID), slog.String("error", err.Error()))
	}

	info := &model.ImageInfo{DetailedDescription: description}
	anchorName, err := p.Reconciler.CreateAnchor(ctx, chunkID, info)
	if err != nil {
		return err
	}

	triples, err := p.Extractor.ExtractGraph(ctx, description)
	if err != nil {
		p.log.Warn("extraction degraded to empty result", slog.String("chunkId", chunkID), slog.String("error", err.Error()))
	}

	p.archive(&model.ArchiveRecord{ChunkID: chunkID, Triples: triples, ImageInfo: info})

	return p.Reconciler.LinkEntities(ctx, anchorName, triples.Entities)
}

func (p *Pipeline) archive(record *model.ArchiveRecord) {
	if p.Archive == nil {
		return
	}
	path, err := p.Archive.Save(record)
	if err != nil {
		p.log.Warn("archiving chunk output failed", slog.String("chunkId", record.ChunkID), slog.String("error", err.Error()))
		return
	}
	p.log.Info("archived chunk output", slog.String("path", path))
}

// documentName derives the chunk identifier prefix from the source, the file
// base name without extension, or "document" for raw text sources.
func documentName(source string) string {
	if strings.ContainsAny(source, " \n") {
		return "document"
	}
	base := filepath.Base(source)
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "document"
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}
