package pipeline

import (
	"testing"

	"github.com/siherrmann/kgraph/model"
	"github.com/stretchr/testify/assert"
)

func textChunk(position int, content string) *model.Chunk {
	return &model.Chunk{Kind: model.ChunkKindText, Content: content, Position: position}
}

func imageChunk(position int) *model.Chunk {
	return &model.Chunk{Kind: model.ChunkKindImage, Content: "img.png", Position: position}
}

func TestSurroundingContext(t *testing.T) {
	chunks := []*model.Chunk{
		textChunk(0, "para zero"),
		textChunk(1, "para one"),
		imageChunk(2),
		textChunk(3, "para three"),
		textChunk(4, "para four"),
		imageChunk(5),
		textChunk(6, "para six"),
	}

	t.Run("Window around image skips other non-text chunks", func(t *testing.T) {
		// delta 2 around index 5 covers indices 3, 4, 6
		context := SurroundingContext(chunks, 5, 2)

		assert.Equal(t, "para three\n\npara four\n\npara six", context)
	})

	t.Run("Window keeps document order", func(t *testing.T) {
		context := SurroundingContext(chunks, 2, 2)

		assert.Equal(t, "para zero\n\npara one\n\npara three\n\npara four", context)
	})

	t.Run("Window clipped at sequence start", func(t *testing.T) {
		context := SurroundingContext(chunks, 0, 2)

		assert.Equal(t, "para one", context)
	})

	t.Run("Window clipped at sequence end", func(t *testing.T) {
		context := SurroundingContext(chunks, 6, 3)

		assert.Equal(t, "para three\n\npara four", context)
	})

	t.Run("Non-text chunks inside the window do not widen it", func(t *testing.T) {
		// delta 1 around index 5 covers only indices 4 and 6
		context := SurroundingContext(chunks, 5, 1)

		assert.Equal(t, "para four\n\npara six", context)
	})

	t.Run("Empty result for invalid index", func(t *testing.T) {
		assert.Equal(t, "", SurroundingContext(chunks, -1, 2))
		assert.Equal(t, "", SurroundingContext(chunks, len(chunks), 2))
	})

	t.Run("Empty result for non-positive delta", func(t *testing.T) {
		assert.Equal(t, "", SurroundingContext(chunks, 3, 0))
	})
}
