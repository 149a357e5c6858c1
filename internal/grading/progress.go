package grading

import (
	"math"

	"github.com/abhisek/tinysteps/internal/store"
)

// trendWindow is the number of most recent grades compared against the
// earlier ones.
const trendWindow = 3

// GradeScore maps a grade onto the 4-point scale. Unknown grades score 2.
func GradeScore(grade string) float64 {
	switch grade {
	case GradeExcellent:
		return 4
	case GradeGood:
		return 3
	case GradeNeedsImprovement:
		return 2
	case GradeIncomplete:
		return 1
	}
	return 2
}

// TrendOf compares the mean of the last three scores with the mean of the
// earlier ones. Fewer than four scores is always stable.
func TrendOf(scores []float64) Trend {
	if len(scores) <= trendWindow {
		return TrendStable
	}
	split := len(scores) - trendWindow
	diff := mean(scores[split:]) - mean(scores[:split])
	switch {
	case diff > 0.3:
		return TrendImproving
	case diff < -0.3:
		return TrendNeedsAttention
	}
	return TrendStable
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// summarize buckets rows by category. rows must be oldest first.
func summarize(rows []store.GradedRow) map[string]SubjectProgress {
	grades := make(map[string][]string)
	for _, r := range rows {
		grades[r.Category] = append(grades[r.Category], r.Grade)
	}

	out := make(map[string]SubjectProgress, len(grades))
	for category, gs := range grades {
		scores := make([]float64, len(gs))
		for i, g := range gs {
			scores[i] = GradeScore(g)
		}
		out[category] = SubjectProgress{
			Category:     category,
			Count:        len(gs),
			AverageScore: math.Round(mean(scores)*100) / 100,
			Trend:        TrendOf(scores),
			Grades:       gs,
		}
	}
	return out
}
