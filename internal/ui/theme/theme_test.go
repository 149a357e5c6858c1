package theme

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGrade_KeepsText(t *testing.T) {
	for _, g := range []string{"Excellent", "Good", "Needs Improvement", "Incomplete"} {
		assert.Contains(t, Grade(g), g)
	}
}

func TestSupervision_KeepsText(t *testing.T) {
	for _, l := range []string{"independent", "guided", "adult_required"} {
		assert.Contains(t, Supervision(l), l)
	}
}

func TestList(t *testing.T) {
	out := List([]string{"cups", "water"})
	assert.Equal(t, 2, strings.Count(out, "\n"))
	assert.Contains(t, out, "cups")
	assert.Contains(t, out, "water")
	assert.Empty(t, List(nil))
}

func TestRule(t *testing.T) {
	assert.Equal(t, 5, strings.Count(Rule(5), "─"))
}
