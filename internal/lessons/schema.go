package lessons

import "github.com/abhisek/tinysteps/internal/llm"

// LessonContentSchema defines the JSON schema for lesson plan generation.
var LessonContentSchema = &llm.Schema{
	Name:        "lesson-content",
	Description: "A preschool lesson plan with ordered activities",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short, child-friendly lesson title",
			},
			"description": map[string]any{
				"type":        "string",
				"description": "One or two sentence summary for the teacher",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The full lesson narrative",
			},
			"activities": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"title":        map[string]any{"type": "string"},
						"description":  map[string]any{"type": "string"},
						"instructions": map[string]any{"type": "string"},
						"materials": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "string"},
						},
						"estimatedTime": map[string]any{
							"type":        "integer",
							"description": "Minutes",
							"minimum":     0,
						},
					},
					"required": []any{"title", "description", "instructions", "materials", "estimatedTime"},
				},
			},
			"assessmentQuestions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"homeExtension": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
		},
		"required": []any{"title", "description", "content", "activities", "assessmentQuestions", "homeExtension"},
	},
}
