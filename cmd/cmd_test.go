package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tinysteps/internal/lessons"
	"github.com/abhisek/tinysteps/internal/stem"
	"github.com/abhisek/tinysteps/internal/usage"
)

// resetFlags restores every flag to its default; cobra keeps flag values
// between Execute calls on the shared command tree.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// isolate runs the test in an empty directory with no provider keys and an
// in-memory store.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("TINYSTEPS_USAGE_BACKEND", "memory")
	t.Setenv("TINYSTEPS_DB_DSN", "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY", "TINYSTEPS_LLM_PROVIDER"} {
		t.Setenv(k, "")
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestDecodeSubmissions(t *testing.T) {
	subs, err := decodeSubmissions([]byte(`[
		{"id": "a", "student_id": "s1", "student_age": 4, "assignment_type": "drawing_art", "content": "rainbow"},
		{"student_id": "s2", "student_age": 5, "assignment_type": "counting_numbers", "content": "1 2 3"}
	]`))
	require.NoError(t, err)
	require.Len(t, subs, 2)
	assert.Equal(t, "a", subs[0].ID)
	assert.Equal(t, "submission-2", subs[1].ID)
	assert.Equal(t, "counting_numbers", subs[1].AssignmentType)

	subs, err = decodeSubmissions([]byte(`  {"submissions": [{"id": "x", "student_id": "s1", "assignment_type": "drawing_art"}]}`))
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, "x", subs[0].ID)

	_, err = decodeSubmissions([]byte(`[]`))
	assert.Error(t, err)
	_, err = decodeSubmissions([]byte(`{"submissions": "nope"}`))
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "tinysteps")
}

func TestLessonTemplates_JSON(t *testing.T) {
	out, err := execute(t, "lesson", "templates", "--json")
	require.NoError(t, err)

	var tmpls []lessons.Template
	require.NoError(t, json.Unmarshal([]byte(out), &tmpls))
	assert.Len(t, tmpls, len(lessons.Templates()))

	out, err = execute(t, "lesson", "templates")
	require.NoError(t, err)
	assert.Contains(t, out, "colors-and-shapes")
}

func TestLessonGenerate_Unavailable(t *testing.T) {
	isolate(t)
	_, err := execute(t, "lesson", "generate", "colors-and-shapes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI service not available")
}

func TestLessonCustom_RequiresTopic(t *testing.T) {
	_, err := execute(t, "lesson", "custom")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--topic")
}

func TestStemSafety(t *testing.T) {
	out, err := execute(t, "stem", "safety", "--age", "3", "--json", "water", "paint")
	require.NoError(t, err)

	var s stem.Safety
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, stem.SupervisionAdultRequired, s.SupervisionLevel)
	assert.NotEmpty(t, s.Risks)

	_, err = execute(t, "stem", "safety", "water")
	assert.Error(t, err, "age is required")
}

func TestStemConcepts_ForAge(t *testing.T) {
	out, err := execute(t, "stem", "concepts", "--age", "4", "--json")
	require.NoError(t, err)

	var concepts []stem.Concept
	require.NoError(t, json.Unmarshal([]byte(out), &concepts))
	require.NotEmpty(t, concepts)
	for _, c := range concepts {
		assert.True(t, c.AgeRange.Contains(4), c.ID)
	}
}

func TestGradeCriteria(t *testing.T) {
	out, err := execute(t, "grade", "criteria")
	require.NoError(t, err)
	assert.Contains(t, out, "drawing_art")

	_, err = execute(t, "grade", "criteria", "interpretive_dance")
	assert.Error(t, err)
}

func TestUsageStats_Empty(t *testing.T) {
	isolate(t)
	out, err := execute(t, "usage", "stats", "--tenant", "school-1", "--json")
	require.NoError(t, err)

	var stats usage.Stats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Zero(t, stats.TotalQueries)
	assert.Empty(t, stats.FeatureBreakdown)
}

func TestLLMList_Empty(t *testing.T) {
	isolate(t)
	out, err := execute(t, "llm", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No LLM events found.")
}
