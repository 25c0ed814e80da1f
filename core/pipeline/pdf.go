package pipeline

import (
	"bytes"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"strings"

	"github.com/unidoc/unipdf/v3/extractor"
	pdfmodel "github.com/unidoc/unipdf/v3/model"

	"github.com/siherrmann/kgraph/model"
)

// PDFSegmenter creates a segmenter that decodes a PDF file into text and image
// chunks in reading order.
//
// Text is split into paragraphs on blank-line boundaries, one Text chunk per
// paragraph tagged with its source page. Images are placed with the trailing
// context policy by default: each image chunk follows its page's text and
// carries the most recently seen paragraph as context. With placeImagesMidpage
// the image is instead inserted in the middle of its page's chunks, which
// renumbers all following positions.
//
// Image decode failures are non-fatal: the segmenter degrades to text-only
// chunks and logs a warning.
func PDFSegmenter(placeImagesMidpage bool, logger *slog.Logger) SegmentFunc {
	return func(source string) ([]*model.Chunk, error) {
		f, err := os.Open(source)
		if err != nil {
			return nil, fmt.Errorf("open pdf: %w", err)
		}
		defer f.Close()

		pdfReader, err := pdfmodel.NewPdfReader(f)
		if err != nil {
			return nil, fmt.Errorf("read pdf: %w", err)
		}

		numPages, err := pdfReader.GetNumPages()
		if err != nil {
			return nil, fmt.Errorf("get page count: %w", err)
		}

		var chunks []*model.Chunk
		lastText := ""

		for i := 1; i <= numPages; i++ {
			page, err := pdfReader.GetPage(i)
			if err != nil {
				return nil, fmt.Errorf("get page %d: %w", i, err)
			}

			ex, err := extractor.New(page)
			if err != nil {
				return nil, fmt.Errorf("create extractor for page %d: %w", i, err)
			}

			text, err := ex.ExtractText()
			if err != nil {
				logger.Warn("Could not extract text from page", slog.Int("page", i), slog.Any("error", err))
				text = ""
			}

			for _, para := range strings.Split(text, "\n\n") {
				para = strings.TrimSpace(para)
				if para == "" {
					continue
				}

				chunks = append(chunks, &model.Chunk{
					Kind:     model.ChunkKindText,
					Content:  para,
					Position: len(chunks),
					Page:     i - 1,
				})
				lastText = para
			}

			pageImages, err := ex.ExtractPageImages(nil)
			if err != nil {
				logger.Warn("Could not extract images from page", slog.Int("page", i), slog.Any("error", err))
				continue
			}

			for _, pImg := range pageImages.Images {
				goImg, err := pImg.Image.ToGoImage()
				if err != nil {
					continue
				}

				var buf bytes.Buffer
				if err := png.Encode(&buf, goImg); err != nil {
					continue
				}

				imageChunk := &model.Chunk{
					Kind: model.ChunkKindImage,
					Data: buf.Bytes(),
					Page: i - 1,
				}

				if placeImagesMidpage {
					insertAt := estimateImagePosition(chunks, i-1)
					chunks = model.InsertChunkAt(chunks, insertAt, imageChunk)
				} else {
					imageChunk.Position = len(chunks)
					imageChunk.Context = lastText
					chunks = append(chunks, imageChunk)
				}
			}
		}

		return chunks, nil
	}
}
