package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/siherrmann/kgraph/model"
)

// TextSegmenter creates a segmenter that splits raw text into one Text chunk
// per paragraph on blank-line boundaries.
func TextSegmenter() SegmentFunc {
	return func(source string) ([]*model.Chunk, error) {
		paragraphs := strings.Split(source, "\n\n")

		var chunks []*model.Chunk
		for _, para := range paragraphs {
			para = strings.TrimSpace(para)
			if para == "" {
				continue
			}

			chunks = append(chunks, &model.Chunk{
				Kind:     model.ChunkKindText,
				Content:  para,
				Position: len(chunks),
				Page:     0,
			})
		}

		return chunks, nil
	}
}

// ImageSegmenter creates a segmenter that treats the source as a single image
// document, yielding one Image chunk with no surrounding context.
func ImageSegmenter() SegmentFunc {
	return func(source string) ([]*model.Chunk, error) {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read image: %w", err)
		}

		return []*model.Chunk{{
			Kind:     model.ChunkKindImage,
			Content:  source,
			Data:     data,
			Position: 0,
			Page:     0,
		}}, nil
	}
}

// estimateImagePosition returns a rough insertion index for an image on the
// given page: the middle of that page's already known chunks, or the end of
// the sequence when the page has none.
func estimateImagePosition(chunks []*model.Chunk, page int) int {
	var pageIndices []int
	for i, chunk := range chunks {
		if chunk.Page == page {
			pageIndices = append(pageIndices, i)
		}
	}

	if len(pageIndices) > 0 {
		return pageIndices[len(pageIndices)/2]
	}
	return len(chunks)
}

// SaveImages persists decoded image bytes from the chunks to dir and replaces
// each image chunk's content with the stable file path. Chunks without raw
// data are left untouched.
func SaveImages(chunks []*model.Chunk, dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create image directory: %w", err)
	}

	for _, chunk := range chunks {
		if chunk.Kind != model.ChunkKindImage || len(chunk.Data) == 0 {
			continue
		}

		path := filepath.Join(dir, fmt.Sprintf("image_pos_%d_page_%d.png", chunk.Position, chunk.Page))
		if err := os.WriteFile(path, chunk.Data, 0644); err != nil {
			return fmt.Errorf("write image %s: %w", path, err)
		}

		chunk.Content = path
		chunk.Data = nil
		if chunk.Metadata == nil {
			chunk.Metadata = model.Metadata{}
		}
		chunk.Metadata["image_path"] = path
	}

	return nil
}
