package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

// Archiver persists the intermediate extraction output of each chunk as a
// JSON file, keyed by chunk identifier. The archive is write-only for the
// pipeline and exists for debugging and replay.
type Archiver struct {
	dir string
}

// NewArchiver creates the archive directory if it does not exist.
func NewArchiver(dir string) (*Archiver, error) {
	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return nil, helper.NewError("creating archive directory", err)
	}
	return &Archiver{dir: dir}, nil
}

// Save writes the record to knowledge_graph_data_<chunkID>.json in the
// archive directory, overwriting any previous record for the same chunk.
func (a *Archiver) Save(record *model.ArchiveRecord) (string, error) {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return "", helper.NewError("marshalling archive record", err)
	}
	path := filepath.Join(a.dir, fmt.Sprintf("knowledge_graph_data_%v.json", record.ChunkID))
	err = os.WriteFile(path, data, 0o644)
	if err != nil {
		return "", helper.NewError("writing archive record", err)
	}
	return path, nil
}
