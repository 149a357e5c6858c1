package stem

import "github.com/abhisek/tinysteps/internal/llm"

// ActivitySchema defines the JSON schema for STEM activity generation.
var ActivitySchema = &llm.Schema{
	Name:        "stem-activity",
	Description: "A hands-on preschool STEM activity",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"instructions": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Ordered steps",
			},
			"scientificConcepts": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"extensions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"safetyNotes": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"title", "description", "instructions", "scientificConcepts", "extensions", "safetyNotes"},
	},
}
