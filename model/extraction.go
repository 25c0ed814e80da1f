package model

// ExtractionResult holds the entities and relationships extracted from one
// chunk of text. The zero value (empty slices) is the fallback for model call
// or parse failures, so downstream loading degrades to a no-op instead of
// aborting the run.
type ExtractionResult struct {
	Entities      []Entity       `json:"entities"`
	Relationships []Relationship `json:"relationships"`
}

// EmptyExtractionResult returns the valid empty structure substituted when the
// model output cannot be parsed.
func EmptyExtractionResult() *ExtractionResult {
	return &ExtractionResult{
		Entities:      []Entity{},
		Relationships: []Relationship{},
	}
}

// EntityIndex holds the searchable summaries generated for extracted entities
type EntityIndex struct {
	Entries []EntityIndexEntry `json:"entity_index"`
}

// EmptyEntityIndex returns the valid empty structure substituted when the
// model output cannot be parsed.
func EmptyEntityIndex() *EntityIndex {
	return &EntityIndex{Entries: []EntityIndexEntry{}}
}

// ImageInfo carries the two generated representations of one image chunk: a
// detailed description used for extraction and retrieval, and a structured
// entity summary.
type ImageInfo struct {
	ImagePath           string `json:"image_path"`
	DetailedDescription string `json:"detailed_description"`
	EntitySummary       string `json:"entity_summary"`
}

// ArchiveRecord is the persisted intermediate output for one processed chunk,
// keyed by chunk identifier. Used for debugging and replay, not read back by
// the pipeline.
type ArchiveRecord struct {
	ChunkID   string            `json:"chunk_id"`
	Triples   *ExtractionResult `json:"triples,omitempty"`
	KeyValues *EntityIndex      `json:"key_values,omitempty"`
	ImageInfo *ImageInfo        `json:"image_info,omitempty"`
}
