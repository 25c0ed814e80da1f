package model

import "github.com/google/uuid"

// ChunkOutcome describes how processing one chunk ended
type ChunkOutcome string

const (
	ChunkOutcomeSucceeded ChunkOutcome = "succeeded"
	ChunkOutcomeFailed    ChunkOutcome = "failed"
)

// ChunkResult reports the identity and outcome of one processed chunk
type ChunkResult struct {
	ChunkID string       `json:"chunk_id"`
	Kind    ChunkKind    `json:"kind"`
	Page    int          `json:"page"`
	Outcome ChunkOutcome `json:"outcome"`
	Error   string       `json:"error,omitempty"`
}

// RunSummary aggregates the outcome of processing one document
type RunSummary struct {
	RunID     uuid.UUID         `json:"run_id"`
	Source    string            `json:"source"`
	Chunks    []ChunkResult     `json:"chunks"`
	ByKind    map[ChunkKind]int `json:"by_kind"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// NewRunSummary creates an empty summary for a new document run
func NewRunSummary(source string) *RunSummary {
	return &RunSummary{
		RunID:  uuid.New(),
		Source: source,
		ByKind: make(map[ChunkKind]int),
	}
}

// Record adds one chunk result to the summary and updates the counters
func (s *RunSummary) Record(result ChunkResult) {
	s.Chunks = append(s.Chunks, result)
	s.ByKind[result.Kind]++
	if result.Outcome == ChunkOutcomeSucceeded {
		s.Succeeded++
	} else {
		s.Failed++
	}
}
