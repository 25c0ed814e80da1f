package model

// ChunkKind represents the modality of a document chunk
type ChunkKind string

const (
	ChunkKindText  ChunkKind = "text"
	ChunkKindImage ChunkKind = "image"
	ChunkKindTable ChunkKind = "table"
)

// Chunk represents one ordered, positioned unit of document content.
// For text chunks Content holds the paragraph text. For image chunks Content
// holds a path once the image has been persisted, with the raw bytes kept in
// Data until then. Context optionally carries the text immediately preceding
// a non-text chunk in the document.
type Chunk struct {
	Kind     ChunkKind `json:"type"`
	Content  string    `json:"content"`
	Data     []byte    `json:"-"`
	Position int       `json:"position"`
	Page     int       `json:"page"`
	Context  string    `json:"context,omitempty"`
	Metadata Metadata  `json:"metadata,omitempty"`
}

// IsText reports whether the chunk carries plain text content
func (c *Chunk) IsText() bool {
	return c.Kind == ChunkKindText
}

// InsertChunkAt inserts chunk into chunks at the given index and renumbers all
// positions from that index on, so positions stay gapless and strictly
// increasing in slice order.
func InsertChunkAt(chunks []*Chunk, index int, chunk *Chunk) []*Chunk {
	if index < 0 {
		index = 0
	}
	if index > len(chunks) {
		index = len(chunks)
	}

	chunks = append(chunks, nil)
	copy(chunks[index+1:], chunks[index:])
	chunks[index] = chunk

	for i := index; i < len(chunks); i++ {
		chunks[i].Position = i
	}

	return chunks
}
