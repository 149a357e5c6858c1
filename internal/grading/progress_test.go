package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/abhisek/tinysteps/internal/store"
)

func TestGradeScore(t *testing.T) {
	assert.Equal(t, 4.0, GradeScore(GradeExcellent))
	assert.Equal(t, 3.0, GradeScore(GradeGood))
	assert.Equal(t, 2.0, GradeScore(GradeNeedsImprovement))
	assert.Equal(t, 1.0, GradeScore(GradeIncomplete))
	assert.Equal(t, 2.0, GradeScore("Superb"))
}

func TestTrendOf(t *testing.T) {
	tests := []struct {
		name   string
		scores []float64
		want   Trend
	}{
		{"empty", nil, TrendStable},
		{"three grades is too few", []float64{1, 4, 4}, TrendStable},
		{"improving", []float64{2, 3, 3, 4}, TrendImproving},
		{"declining", []float64{4, 4, 3, 2, 2}, TrendNeedsAttention},
		{"flat", []float64{3, 3, 3, 3}, TrendStable},
		{"small gain stays stable", []float64{3, 3, 3, 3, 3.5}, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TrendOf(tt.scores))
		})
	}
}

func TestSummarize(t *testing.T) {
	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	rows := []store.GradedRow{
		{Category: "art", Grade: GradeGood, GradedAt: at},
		{Category: "math", Grade: GradeIncomplete, GradedAt: at},
		{Category: "art", Grade: GradeExcellent, GradedAt: at.Add(time.Hour)},
		{Category: "art", Grade: "???", GradedAt: at.Add(2 * time.Hour)},
	}

	got := summarize(rows)
	assert.Len(t, got, 2)
	assert.Equal(t, SubjectProgress{
		Category:     "art",
		Count:        3,
		AverageScore: 3,
		Trend:        TrendStable,
		Grades:       []string{GradeGood, GradeExcellent, "???"},
	}, got["art"])
	assert.Equal(t, 1.0, got["math"].AverageScore)
}
