package pipeline

import (
	"log/slog"

	"github.com/siherrmann/kgraph/model"
)

// SegmentFunc turns a document source (file path or raw text, depending on the
// segmenter) into an ordered sequence of positioned chunks. Positions are
// strictly increasing in reading order.
type SegmentFunc func(source string) ([]*model.Chunk, error)

// Pipeline drives the document-to-graph processing: segmentation, extraction,
// and reconciliation into the graph store.
type Pipeline struct {
	Segmenter  SegmentFunc
	Extractor  *Extractor
	Vision     *VisionProcessor
	Reconciler *Reconciler
	Archive    *Archiver // Optional per-chunk archive of raw extraction output

	// Context window half-width for non-text chunks
	Delta int

	log *slog.Logger
}

// NewPipeline creates a new processing pipeline. Archive may be nil to disable
// intermediate output.
func NewPipeline(segmenter SegmentFunc, extractor *Extractor, reconciler *Reconciler, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		Segmenter:  segmenter,
		Extractor:  extractor,
		Reconciler: reconciler,
		Delta:      2,
		log:        logger,
	}
}

// SetVision enables the multimodal path for image chunks
func (p *Pipeline) SetVision(vision *VisionProcessor) {
	p.Vision = vision
}

// SetArchive enables per-chunk archiving of raw extraction results
func (p *Pipeline) SetArchive(archive *Archiver) {
	p.Archive = archive
}
