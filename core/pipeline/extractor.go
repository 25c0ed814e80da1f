package pipeline

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/llm"
	"github.com/siherrmann/kgraph/model"
)

// Extractor turns chunk text into graph structures with two model calls, one
// for entities and relationships and one for the searchable entity index.
type Extractor struct {
	completer      llm.Completer
	entityTemplate *Template
	indexTemplate  *Template
}

// NewExtractor wraps a completer with the pipeline's extraction prompts.
func NewExtractor(completer llm.Completer) *Extractor {
	return &Extractor{
		completer:      completer,
		entityTemplate: EntityExtractionTemplate(),
		indexTemplate:  IndexGenerationTemplate(),
	}
}

// ExtractGraph asks the model for entities and relationships in the given
// text. Unparseable responses come back as the empty result with the error.
func (e *Extractor) ExtractGraph(ctx context.Context, text string) (*model.ExtractionResult, error) {
	messages := e.entityTemplate.Render(map[string]string{"text": text})
	raw, err := e.completer.Complete(ctx, messages)
	if err != nil {
		return model.EmptyExtractionResult(), helper.NewError("extracting entities and relationships", err)
	}
	return ParseExtractionResult(raw)
}

// GenerateIndex asks the model for per-entity summaries, grounded on the
// already extracted triples and the original text.
func (e *Extractor) GenerateIndex(ctx context.Context, triples *model.ExtractionResult, text string) (*model.EntityIndex, error) {
	triplesJSON, err := json.Marshal(triples)
	if err != nil {
		return model.EmptyEntityIndex(), helper.NewError("marshalling triples for index prompt", err)
	}
	messages := e.indexTemplate.Render(map[string]string{
		"triples": string(triplesJSON),
		"text":    text,
	})
	raw, err := e.completer.Complete(ctx, messages)
	if err != nil {
		return model.EmptyEntityIndex(), helper.NewError("generating entity index", err)
	}
	return ParseEntityIndex(raw)
}

// ExtractComplete runs both extraction steps for one chunk of text. Both
// steps always run: a failed graph extraction feeds the empty result into
// index generation, so callers get valid (possibly empty) structures for
// every outcome together with the joined errors.
func (e *Extractor) ExtractComplete(ctx context.Context, text string) (*model.ExtractionResult, *model.EntityIndex, error) {
	triples, extractErr := e.ExtractGraph(ctx, text)
	index, indexErr := e.GenerateIndex(ctx, triples, text)
	return triples, index, errors.Join(extractErr, indexErr)
}
