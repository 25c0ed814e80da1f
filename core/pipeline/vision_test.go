package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisionProcessorExtractImageInfo(t *testing.T) {
	ctx := context.Background()
	imageData := []byte{0x89, 0x50, 0x4e, 0x47}

	t.Run("Two calls, second conditioned on the first description", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{
			"A bar chart of election results by region.",
			`{"entity_name": "Figure_1_Election_Results", "entity_type": "image", "key_entities": ["France"]}`,
		}}
		processor := NewVisionProcessor(completer)

		info, err := processor.ExtractImageInfo(ctx, "figure.png", imageData, "The election was held in France.")

		require.NoError(t, err)
		assert.Equal(t, "figure.png", info.ImagePath)
		assert.Equal(t, "A bar chart of election results by region.", info.DetailedDescription)
		assert.Contains(t, info.EntitySummary, "Figure_1_Election_Results")

		require.Len(t, completer.calls, 2)
		// Both calls carry the image bytes
		require.Len(t, completer.calls[0][0].Images, 1)
		assert.Equal(t, imageData, completer.calls[0][0].Images[0])
		require.Len(t, completer.calls[1][0].Images, 1)
		// The second prompt embeds context and the first description
		assert.Contains(t, completer.calls[1][0].Content, "The election was held in France.")
		assert.Contains(t, completer.calls[1][0].Content, "A bar chart of election results by region.")
	})

	t.Run("Reads image from path when no data given", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "figure.png")
		require.NoError(t, os.WriteFile(path, imageData, 0644))
		completer := &fakeCompleter{responses: []string{"description", "summary"}}
		processor := NewVisionProcessor(completer)

		info, err := processor.ExtractImageInfo(ctx, path, nil, "")

		require.NoError(t, err)
		assert.Equal(t, path, info.ImagePath)
		require.Len(t, completer.calls, 2)
		assert.Equal(t, imageData, completer.calls[0][0].Images[0])
	})

	t.Run("Missing file is an error", func(t *testing.T) {
		processor := NewVisionProcessor(&fakeCompleter{})

		_, err := processor.ExtractImageInfo(ctx, filepath.Join(t.TempDir(), "gone.png"), nil, "")

		assert.Error(t, err)
	})

	t.Run("Failed model call substitutes sentinel text", func(t *testing.T) {
		completer := &fakeCompleter{err: errors.New("model offline")}
		processor := NewVisionProcessor(completer)

		info, err := processor.ExtractImageInfo(ctx, "figure.png", imageData, "")

		assert.Error(t, err)
		require.NotNil(t, info)
		assert.Equal(t, FailedProcessingText, info.DetailedDescription)
		assert.Equal(t, FailedProcessingText, info.EntitySummary)
	})
}

func TestVisionProcessorDescribeTable(t *testing.T) {
	ctx := context.Background()

	t.Run("Prompt carries table text and context", func(t *testing.T) {
		completer := &fakeCompleter{responses: []string{"The table lists quarterly revenue."}}
		processor := NewVisionProcessor(completer)

		description, err := processor.DescribeTable(ctx, "Q1 | 100\nQ2 | 120", "Revenue section.")

		require.NoError(t, err)
		assert.Equal(t, "The table lists quarterly revenue.", description)
		require.Len(t, completer.calls, 1)
		assert.Contains(t, completer.calls[0][0].Content, "Q1 | 100")
		assert.Contains(t, completer.calls[0][0].Content, "Revenue section.")
	})

	t.Run("Failed call returns sentinel", func(t *testing.T) {
		processor := NewVisionProcessor(&fakeCompleter{err: errors.New("model offline")})

		description, err := processor.DescribeTable(ctx, "table", "")

		assert.Error(t, err)
		assert.Equal(t, FailedProcessingText, description)
	})
}
