package analysis

import (
	"encoding/json"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"docscan/internal/model"
)

// recordSchema validates the shape of an extracted record before it is
// mapped onto domain types: non-empty title and content, a document_type
// from the closed classification enumeration, and an entities array whose
// members carry a non-empty name and a valid entity type.
var recordSchema = jsonschema.MustCompileString("analysis.json", buildRecordSchema())

func buildRecordSchema() string {
	docTypes := make([]string, len(model.DocumentTypes))
	for i, t := range model.DocumentTypes {
		docTypes[i] = string(t)
	}
	entityTypes := make([]string, len(model.EntityTypes))
	for i, t := range model.EntityTypes {
		entityTypes[i] = string(t)
	}

	schema := map[string]any{
		"type":     "object",
		"required": []string{"title", "content", "document_type", "entities"},
		"properties": map[string]any{
			"title":         map[string]any{"type": "string", "minLength": 1},
			"content":       map[string]any{"type": "string", "minLength": 1},
			"document_type": map[string]any{"type": "string", "enum": docTypes},
			"entities": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"name", "type"},
					"properties": map[string]any{
						"name": map[string]any{"type": "string", "minLength": 1},
						"type": map[string]any{"type": "string", "enum": entityTypes},
					},
				},
			},
		},
	}

	bs, err := json.Marshal(schema)
	if err != nil {
		panic(err)
	}
	return string(bs)
}
