package grading

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

const gradingContract = `{
  "grade": "Excellent | Good | Needs Improvement | Incomplete",
  "feedback": "string (2-4 warm sentences for the teacher)",
  "strengths": ["string"],
  "areasForImprovement": ["string"],
  "nextSteps": ["string"],
  "parentNotes": "string"
}`

func buildGradingPrompt(sub Submission, c Criteria, ageMatch bool) string {
	var b strings.Builder

	b.WriteString("Grade this preschool homework submission.\n\n")
	b.WriteString(fmt.Sprintf("Assignment type: %s\n", c.AssignmentType))
	if sub.AssignmentTitle != "" {
		b.WriteString(fmt.Sprintf("Assignment: %s\n", sub.AssignmentTitle))
	}
	if sub.Instructions != "" {
		b.WriteString(fmt.Sprintf("Instructions given: %s\n", sub.Instructions))
	}
	b.WriteString(fmt.Sprintf("Student age: %d\n", sub.StudentAge))

	b.WriteString("\nRubric:\n")
	for _, item := range c.Rubric {
		b.WriteString(fmt.Sprintf("- %s (weight %d): %s\n", item.Criterion, item.Weight, item.Description))
	}

	a := c.AgeExpectations
	b.WriteString(fmt.Sprintf("\nExpected ages: %d-%d. %s\n", a.MinAge, a.MaxAge, a.DevelopmentalNotes))
	if !ageMatch {
		b.WriteString("The student is outside the expected age range; adjust expectations accordingly.\n")
	}

	b.WriteString("\nSubmission:\n")
	if strings.TrimSpace(sub.Content) == "" {
		b.WriteString("(empty)\n")
	} else {
		b.WriteString(sub.Content + "\n")
	}

	b.WriteString(`
Instructions:
1. Grade against the rubric with age-appropriate expectations.
2. Be encouraging; name specific things the child did well.
3. Keep next steps small and playful.
4. Write parent notes in plain, friendly language.

Respond ONLY with a JSON object of this exact shape:
`)
	b.WriteString(gradingContract)
	return b.String()
}

const progressContract = `{
  "overallSummary": "string",
  "strengths": ["string"],
  "areasForGrowth": ["string"],
  "recommendations": ["string"],
  "parentSummary": "string"
}`

func buildProgressPrompt(r *ProgressReport, studentName string) string {
	var b strings.Builder

	name := studentName
	if name == "" {
		name = r.StudentID
	}
	b.WriteString("Analyze this preschool student's progress.\n\n")
	b.WriteString(fmt.Sprintf("Student: %s\n", name))
	b.WriteString(fmt.Sprintf("Period: %s to %s\n", formatDate(r.From, "start"), formatDate(r.To, "today")))
	b.WriteString(fmt.Sprintf("Graded submissions: %d\n", r.TotalSubmissions))

	b.WriteString("\nBy subject:\n")
	for _, category := range slices.Sorted(maps.Keys(r.Subjects)) {
		s := r.Subjects[category]
		b.WriteString(fmt.Sprintf("- %s: %d submissions, average %.2f/4, trend %s, grades %s\n",
			category, s.Count, s.AverageScore, s.Trend, strings.Join(s.Grades, ", ")))
	}

	b.WriteString(`
Instructions:
1. Summarize overall progress in 3-4 sentences.
2. List specific strengths and areas for growth.
3. Give practical classroom recommendations.
4. Write a short parent summary without grades or jargon.

Respond ONLY with a JSON object of this exact shape:
`)
	b.WriteString(progressContract)
	return b.String()
}

func formatDate(t time.Time, open string) string {
	if t.IsZero() {
		return open
	}
	return t.Format("2006-01-02")
}
