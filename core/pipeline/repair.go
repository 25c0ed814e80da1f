package pipeline

import (
	"encoding/json"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/siherrmann/kgraph/helper"
	"github.com/siherrmann/kgraph/model"
)

const extractionResultSchema = `{
	"type": "object",
	"properties": {
		"entities": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"name": {"type": "string"},
					"type": {"type": "string"}
				},
				"required": ["name"]
			}
		},
		"relationships": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"source": {"type": "string"},
					"relation": {"type": "string"},
					"target": {"type": "string"}
				},
				"required": ["source", "relation", "target"]
			}
		}
	},
	"required": ["entities"]
}`

const entityIndexSchema = `{
	"type": "object",
	"properties": {
		"entity_index": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"key": {"type": "string"},
					"value": {"type": "string"}
				},
				"required": ["key", "value"]
			}
		}
	},
	"required": ["entity_index"]
}`

var (
	compiledExtractionSchema = jsonschema.MustCompileString("extraction.json", extractionResultSchema)
	compiledIndexSchema      = jsonschema.MustCompileString("index.json", entityIndexSchema)
)

// StripCodeFence removes a single surrounding markdown code fence from a
// model response. The first line is dropped only when it opens a fence and
// the last line only when it closes one, so applying the function twice gives
// the same result as applying it once.
func StripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	lines = lines[1:]
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "```" {
		lines = lines[:len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

func validateAgainstSchema(schema *jsonschema.Schema, data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return helper.NewError("unmarshalling json", err)
	}
	if err := schema.Validate(v); err != nil {
		return helper.NewError("validating json against schema", err)
	}
	return nil
}

// ParseExtractionResult strips code fences from a raw model response and
// decodes it into an ExtractionResult. Responses that are not valid JSON or
// fail schema validation yield the empty result together with the error, so
// callers can log and continue with the rest of the document.
func ParseExtractionResult(raw string) (*model.ExtractionResult, error) {
	cleaned := StripCodeFence(raw)
	if err := validateAgainstSchema(compiledExtractionSchema, []byte(cleaned)); err != nil {
		return model.EmptyExtractionResult(), err
	}
	result := model.EmptyExtractionResult()
	if err := json.Unmarshal([]byte(cleaned), result); err != nil {
		return model.EmptyExtractionResult(), helper.NewError("unmarshalling extraction result", err)
	}
	return result, nil
}

// ParseEntityIndex strips code fences and decodes the entity index response.
// Invalid responses yield an empty index together with the error.
func ParseEntityIndex(raw string) (*model.EntityIndex, error) {
	cleaned := StripCodeFence(raw)
	if err := validateAgainstSchema(compiledIndexSchema, []byte(cleaned)); err != nil {
		return model.EmptyEntityIndex(), err
	}
	index := model.EmptyEntityIndex()
	if err := json.Unmarshal([]byte(cleaned), index); err != nil {
		return model.EmptyEntityIndex(), helper.NewError("unmarshalling entity index", err)
	}
	return index, nil
}
