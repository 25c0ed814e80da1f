package model

import (
	"encoding/json"
	"errors"

	"github.com/siherrmann/kgraph/helper"
)

// Metadata represents a free-form property bag attached to chunks, entities
// and relationships
type Metadata map[string]interface{}

// Marshal converts Metadata to JSON bytes
func (m Metadata) Marshal() ([]byte, error) {
	return json.Marshal(m)
}

// Unmarshal converts JSON bytes or Metadata to Metadata
func (m *Metadata) Unmarshal(value interface{}) error {
	if value == nil {
		*m = Metadata{}
		return nil
	}

	if s, ok := value.(Metadata); ok {
		*m = Metadata(s)
		return nil
	}

	b, ok := value.([]byte)
	if !ok {
		return helper.NewError("byte assertion", errors.New("type assertion to []byte failed"))
	}

	return json.Unmarshal(b, m)
}

// Merge returns a copy of m with the entries of other merged in, with other
// winning on key collisions.
func (m Metadata) Merge(other Metadata) Metadata {
	merged := make(Metadata, len(m)+len(other))
	for k, v := range m {
		merged[k] = v
	}
	for k, v := range other {
		merged[k] = v
	}
	return merged
}
