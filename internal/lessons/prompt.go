package lessons

import (
	"fmt"
	"strings"
)

// lessonPrompt holds everything the lesson builder interpolates.
type lessonPrompt struct {
	Topic         string
	Description   string
	Subjects      []string
	AgeGroup      string
	Duration      int
	Objectives    []string
	ActivityTypes []string
	Materials     []string
	Notes         string
}

const lessonContract = `{
  "title": "string",
  "description": "string",
  "content": "string (the full lesson narrative for the teacher)",
  "activities": [
    {
      "title": "string",
      "description": "string",
      "instructions": "string",
      "materials": ["string"],
      "estimatedTime": 10
    }
  ],
  "assessmentQuestions": ["string"],
  "homeExtension": ["string"]
}`

func buildLessonPrompt(in lessonPrompt) string {
	var b strings.Builder

	b.WriteString("Create a detailed preschool lesson plan.\n\n")
	b.WriteString(fmt.Sprintf("Topic: %s\n", in.Topic))
	if in.Description != "" {
		b.WriteString(fmt.Sprintf("Description: %s\n", in.Description))
	}
	b.WriteString(fmt.Sprintf("Subjects: %s\n", strings.Join(in.Subjects, ", ")))
	b.WriteString(fmt.Sprintf("Age group: %s\n", in.AgeGroup))
	b.WriteString(fmt.Sprintf("Duration: %d minutes\n", in.Duration))

	b.WriteString("\nLearning Objectives:\n")
	if len(in.Objectives) == 0 {
		b.WriteString("- None specified\n")
	}
	for _, o := range in.Objectives {
		b.WriteString(fmt.Sprintf("- %s\n", o))
	}

	if len(in.ActivityTypes) > 0 {
		b.WriteString(fmt.Sprintf("\nSuggested activity types: %s\n", strings.Join(in.ActivityTypes, ", ")))
	}
	if len(in.Materials) > 0 {
		b.WriteString(fmt.Sprintf("Available materials: %s\n", strings.Join(in.Materials, ", ")))
	}
	if in.Notes != "" {
		b.WriteString(fmt.Sprintf("\nTeacher notes: %s\n", in.Notes))
	}

	b.WriteString(`
Instructions:
1. Use simple, playful language suited to the age group.
2. Include 3-5 hands-on activities whose estimated times add up to the duration.
3. Every activity lists its materials and step-by-step instructions for the teacher.
4. Add 2-4 short assessment questions the teacher can ask the children.
5. Add 1-3 home extension ideas parents can do with everyday items.

Respond ONLY with a JSON object of this exact shape:
`)
	b.WriteString(lessonContract)
	return b.String()
}
