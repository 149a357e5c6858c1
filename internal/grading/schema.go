package grading

import "github.com/abhisek/tinysteps/internal/llm"

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

// HomeworkGradingSchema defines the JSON schema for homework grading.
var HomeworkGradingSchema = &llm.Schema{
	Name:        "homework-grading",
	Description: "Rubric-based assessment of a preschool homework submission",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"grade": map[string]any{
				"type": "string",
				"enum": []any{GradeExcellent, GradeGood, GradeNeedsImprovement, GradeIncomplete},
			},
			"feedback": map[string]any{
				"type":        "string",
				"description": "Encouraging feedback for the teacher",
			},
			"strengths":           stringList("Specific things the child did well"),
			"areasForImprovement": stringList("Age-appropriate areas to work on"),
			"nextSteps":           stringList("Small, playful next activities"),
			"parentNotes": map[string]any{
				"type":        "string",
				"description": "Plain-language note for parents",
			},
		},
		"required": []any{"grade", "feedback", "strengths", "areasForImprovement", "nextSteps", "parentNotes"},
	},
}

// ProgressAnalysisSchema defines the JSON schema for progress analysis.
var ProgressAnalysisSchema = &llm.Schema{
	Name:        "progress-analysis",
	Description: "Narrative analysis of a student's graded work over time",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"overallSummary":  map[string]any{"type": "string"},
			"strengths":       stringList("Observed strengths"),
			"areasForGrowth":  stringList("Areas to support next"),
			"recommendations": stringList("Practical classroom recommendations"),
			"parentSummary":   map[string]any{"type": "string"},
		},
		"required": []any{"overallSummary", "strengths", "areasForGrowth", "recommendations", "parentSummary"},
	},
}
