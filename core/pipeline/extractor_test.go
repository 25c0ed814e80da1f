package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/siherrmann/kgraph/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCompleter returns canned responses in order and records every call.
type fakeCompleter struct {
	responses []string
	calls     [][]llm.Message
	err       error
}

func (f *fakeCompleter) Complete(ctx context.Context, messages []llm.Message) (string, error) {
	f.calls = append(f.calls, messages)
	if f.err != nil {
		return "", f.err
	}
	if len(f.responses) == 0 {
		return "", errors.New("no canned response left")
	}
	response := f.responses[0]
	f.responses = f.responses[1:]
	return response, nil
}

const cannedTriples = "```json\n" + `{
	"entities": [
		{"name": "Dr. Sarah Chen", "type": "Person"},
		{"name": "Stanford Medical Center", "type": "Organization"}
	],
	"relationships": [
		{"source": "Dr. Sarah Chen", "relation": "works_at", "target": "Stanford Medical Center"}
	]
}` + "\n```"

const cannedIndex = "```json\n" + `{
	"entity_index": [
		{"key": "Dr. Sarah Chen", "value": "Cardiologist at Stanford Medical Center."}
	]
}` + "\n```"

func TestExtractorExtractGraph(t *testing.T) {
	ctx := context.Background()

	t.Run("Parses fenced model response", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples}}
		extractor := NewExtractor(completer)

		result, err := extractor.ExtractGraph(ctx, "Dr. Sarah Chen works at Stanford Medical Center.")

		require.NoError(t, err)
		require.Len(t, result.Entities, 2)
		assert.Equal(t, "Dr. Sarah Chen", result.Entities[0].Name)
		require.Len(t, result.Relationships, 1)

		// The chunk text must reach the model verbatim
		require.Len(t, completer.calls, 1)
		assert.Equal(t, "Dr. Sarah Chen works at Stanford Medical Center.", completer.calls[0][1].Content)
	})

	t.Run("Model failure yields empty result and error", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("connection refused")}
		extractor := NewExtractor(completer)

		result, err := extractor.ExtractGraph(ctx, "some text")

		assert.Error(t, err)
		require.NotNil(t, result)
		assert.Empty(t, result.Entities)
	})

	t.Run("Unparseable response yields empty result and error", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{"I could not find any entities, sorry."}}
		extractor := NewExtractor(completer)

		result, err := extractor.ExtractGraph(ctx, "some text")

		assert.Error(t, err)
		assert.Empty(t, result.Entities)
	})
}

func TestExtractorGenerateIndex(t *testing.T) {
	ctx := context.Background()

	t.Run("Index prompt carries triples and original text", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex}}
		extractor := NewExtractor(completer)

		triples, err := extractor.ExtractGraph(ctx, "original text")
		require.NoError(t, err)

		index, err := extractor.GenerateIndex(ctx, triples, "original text")

		require.NoError(t, err)
		require.Len(t, index.Entries, 1)
		assert.Equal(t, "Dr. Sarah Chen", index.Entries[0].Key)

		require.Len(t, completer.calls, 2)
		userMessage := completer.calls[1][1].Content
		assert.Contains(t, userMessage, "Dr. Sarah Chen")
		assert.Contains(t, userMessage, "Original Text:original text")
	})
}

func TestExtractorExtractComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("Runs both steps", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{cannedTriples, cannedIndex}}
		extractor := NewExtractor(completer)

		triples, index, err := extractor.ExtractComplete(ctx, "text")

		require.NoError(t, err)
		assert.Len(t, triples.Entities, 2)
		assert.Len(t, index.Entries, 1)
	})

	t.Run("Failed extraction still generates the index from empty triples", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{"not json", cannedIndex}}
		extractor := NewExtractor(completer)

		triples, index, err := extractor.ExtractComplete(ctx, "text")

		assert.Error(t, err)
		assert.Empty(t, triples.Entities)
		assert.Len(t, index.Entries, 1)
		require.Len(t, completer.calls, 2)
		// The index prompt carries the empty triple structure
		assert.Contains(t, completer.calls[1][1].Content, `"entities":[]`)
	})

	t.Run("Both steps failing joins the errors", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{"not json", "also not json"}}
		extractor := NewExtractor(completer)

		triples, index, err := extractor.ExtractComplete(ctx, "text")

		assert.Error(t, err)
		assert.Empty(t, triples.Entities)
		assert.Empty(t, index.Entries)
		assert.Len(t, completer.calls, 2)
	})
}
