package stem

import (
	"fmt"
	"strings"
)

// activityPrompt holds everything the activity builder interpolates.
type activityPrompt struct {
	Concept       Concept
	Kit           *MaterialKit
	Age           int
	LearningGoals []string
	Materials     []string
	Duration      int
	GroupSize     int
	Notes         string
}

const activityContract = `{
  "title": "string",
  "description": "string",
  "instructions": ["string (one step each, in order)"],
  "scientificConcepts": ["string"],
  "extensions": ["string"],
  "safetyNotes": ["string"]
}`

func buildActivityPrompt(in activityPrompt) string {
	var b strings.Builder

	b.WriteString("Design a hands-on STEM activity for preschool children.\n\n")
	b.WriteString(fmt.Sprintf("Concept: %s (%s)\n", in.Concept.Name, in.Concept.Subject))
	if in.Concept.Description != "" {
		b.WriteString(fmt.Sprintf("Idea: %s\n", in.Concept.Description))
	}
	b.WriteString(fmt.Sprintf("Child age: %d\n", in.Age))
	if in.Duration > 0 {
		b.WriteString(fmt.Sprintf("Duration: %d minutes\n", in.Duration))
	}
	if in.GroupSize > 0 {
		b.WriteString(fmt.Sprintf("Group size: %d children\n", in.GroupSize))
	}

	b.WriteString("\nLearning goals:\n")
	if len(in.LearningGoals) == 0 {
		b.WriteString("- None specified\n")
	}
	for _, g := range in.LearningGoals {
		b.WriteString(fmt.Sprintf("- %s\n", g))
	}

	if in.Kit != nil {
		b.WriteString(fmt.Sprintf("\nMaterial kit: %s\n", in.Kit.Name))
	}
	b.WriteString("Materials available:\n")
	if len(in.Materials) == 0 {
		b.WriteString("- Everyday classroom items\n")
	}
	for _, m := range in.Materials {
		b.WriteString(fmt.Sprintf("- %s\n", m))
	}

	if in.Notes != "" {
		b.WriteString(fmt.Sprintf("\nTeacher notes: %s\n", in.Notes))
	}

	b.WriteString(`
Instructions:
1. Use only the listed materials.
2. Write short, numbered steps a teacher can read aloud.
3. Explain the science in words a young child understands.
4. Suggest 1-3 extensions for children who want more.
5. List safety notes specific to these materials.

Respond ONLY with a JSON object of this exact shape:
`)
	b.WriteString(activityContract)
	return b.String()
}
