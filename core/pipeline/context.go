package pipeline

import (
	"strings"

	"github.com/siherrmann/kgraph/model"
)

// SurroundingContext collects the text chunks in the index window
// [index-delta, index) and (index, index+delta], clipped to the sequence
// bounds, and joins them in document order with blank lines. The window is
// measured in index distance, so non-text chunks inside it are skipped and do
// not widen it. Pure function.
func SurroundingContext(chunks []*model.Chunk, index int, delta int) string {
	if index < 0 || index >= len(chunks) || delta <= 0 {
		return ""
	}

	var parts []string

	start := index - delta
	if start < 0 {
		start = 0
	}
	for i := start; i < index; i++ {
		if chunks[i].IsText() {
			parts = append(parts, chunks[i].Content)
		}
	}

	end := index + delta
	if end > len(chunks)-1 {
		end = len(chunks) - 1
	}
	for i := index + 1; i <= end; i++ {
		if chunks[i].IsText() {
			parts = append(parts, chunks[i].Content)
		}
	}

	return strings.Join(parts, "\n\n")
}
