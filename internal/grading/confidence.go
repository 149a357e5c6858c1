package grading

import "math"

// Confidence scores how well a grading is supported by its own stated
// evidence. It does not measure whether the grade is correct.
func Confidence(g HomeworkGrading, ageMatch bool) float64 {
	score := 0.5
	if len(g.Strengths) > 0 && len(g.AreasForImprovement) > 0 {
		score += 0.2
	}
	if ageMatch {
		score += 0.1
	}
	if len(g.Feedback) > 50 && len(g.NextSteps) > 0 {
		score += 0.15
	}
	if g.Grade == GradeExcellent && len(g.Strengths) < 2 {
		score -= 0.1
	}
	if g.Grade == GradeIncomplete && len(g.AreasForImprovement) < 2 {
		score -= 0.1
	}
	score = min(max(score, 0.3), 0.95)
	// Scores are reported to two decimals.
	return math.Round(score*100) / 100
}
