package stem

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/llm"
	"github.com/abhisek/tinysteps/internal/usage"
)

const activityJSON = "```json\n" + `{
	"title": "Sink or Float?",
	"description": "Children predict and test which objects float.",
	"instructions": ["Fill the tub", "Hold up a cork and ask: float or sink?", "Drop it in and watch"],
	"scientificConcepts": ["buoyancy"],
	"extensions": ["Try a ball of clay, then flatten it into a boat"],
	"safetyNotes": ["Wipe spills"]
}` + "\n```"

func newGenerator(t *testing.T, provider llm.Provider) (*Generator, *usage.Recorder) {
	t.Helper()
	rec := usage.NewRecorder()
	t.Cleanup(rec.Close)
	return NewGenerator(ai.NewClient(provider, rec)), rec
}

func TestGenerateActivity_AutoSelectsConceptFromKit(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(activityJSON, 700))
	g, rec := newGenerator(t, mock)

	got, err := g.GenerateActivity(context.Background(), ActivityRequest{
		UserID:   "teacher-1",
		TenantID: "school-1",
		KitID:    "water-play",
		Age:      4,
	})
	require.NoError(t, err)

	assert.Equal(t, "floating-sinking", got.Concept.ID)
	require.NotNil(t, got.Kit)
	assert.Equal(t, "Sink or Float?", got.Activity.Title)
	assert.Len(t, got.Activity.Instructions, 3)
	assert.Equal(t, DefaultLearningGoals(got.Concept), got.LearningGoals)
	assert.Equal(t, "Clear plastic tub", got.Materials[0])
	assert.Equal(t, SupervisionGuided, got.Safety.SupervisionLevel)
	assert.Contains(t, got.Safety.Risks, "Slipping on wet floors")
	assert.Contains(t, got.Safety.Risks, "Choking on small parts")

	req, _ := mock.LastCall()
	assert.Equal(t, 3000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Contains(t, req.Messages[0].Content, "Concept: Floating and Sinking (physics)")
	assert.Contains(t, req.Messages[0].Content, "Material kit: Water Exploration Kit")

	assert.Equal(t, 700, rec.Stats("school-1").TotalTokens)
}

func TestGenerateActivity_ExplicitConceptAndGoals(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(activityJSON, 10))
	g, _ := newGenerator(t, mock)

	got, err := g.GenerateActivity(context.Background(), ActivityRequest{
		ConceptID:     "ice-melting",
		Age:           3,
		Materials:     []string{"ice cubes", "salt"},
		LearningGoals: []string{"Notice that salt melts ice faster"},
	})
	require.NoError(t, err)
	assert.Equal(t, "ice-melting", got.Concept.ID)
	assert.Nil(t, got.Kit)
	assert.Equal(t, []string{"Notice that salt melts ice faster"}, got.LearningGoals)
	assert.Equal(t, SupervisionAdultRequired, got.Safety.SupervisionLevel, "under four")
}

func TestGenerateActivity_KitSafetyLevelIsAFloor(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(activityJSON, 10))
	g, _ := newGenerator(t, mock)

	got, err := g.GenerateActivity(context.Background(), ActivityRequest{KitID: "light-and-shadow", Age: 5})
	require.NoError(t, err)
	assert.Equal(t, SupervisionAdultRequired, got.Safety.SupervisionLevel)
}

func TestGenerateActivity_LookupFailuresMakeNoCall(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(activityJSON, 10))
	g, _ := newGenerator(t, mock)
	ctx := context.Background()

	_, err := g.GenerateActivity(ctx, ActivityRequest{ConceptID: "cold-fusion", Age: 4})
	assert.Equal(t, ai.KindNotFound, ai.KindOf(err))
	assert.Equal(t, "STEM concept not found", ai.Message(err))

	_, err = g.GenerateActivity(ctx, ActivityRequest{KitID: "chemistry-set", Age: 4})
	assert.Equal(t, ai.KindNotFound, ai.KindOf(err))
	assert.Equal(t, "Material kit not found", ai.Message(err))

	_, err = g.GenerateActivity(ctx, ActivityRequest{Age: 11})
	assert.Equal(t, ai.KindNotFound, ai.KindOf(err))

	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerateActivity_Unavailable(t *testing.T) {
	g, _ := newGenerator(t, nil)
	_, err := g.GenerateActivity(context.Background(), ActivityRequest{Age: 4})
	assert.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestGenerateActivity_ParseFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"title": "Half an answer"`, 10))
	g, _ := newGenerator(t, mock)

	got, err := g.GenerateActivity(context.Background(), ActivityRequest{Age: 4})
	assert.Nil(t, got)
	assert.Equal(t, ai.KindParse, ai.KindOf(err))
}

func TestActivity_RoundTrip(t *testing.T) {
	a, err := ai.Decode[Activity]([]byte(activityJSON), ActivitySchema)
	require.NoError(t, err)
	data, err := json.Marshal(a)
	require.NoError(t, err)
	b, err := ai.Decode[Activity](data, ActivitySchema)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildActivityPrompt(t *testing.T) {
	c, _ := LookupConcept("shadows")
	prompt := buildActivityPrompt(activityPrompt{
		Concept:       c,
		Age:           5,
		LearningGoals: []string{"Make a shadow bigger"},
		Duration:      20,
		GroupSize:     6,
	})
	assert.Contains(t, prompt, "Duration: 20 minutes")
	assert.Contains(t, prompt, "Group size: 6 children")
	assert.Contains(t, prompt, "- Make a shadow bigger")
	assert.Contains(t, prompt, "- Everyday classroom items")
	assert.NotContains(t, prompt, "Material kit:")
	assert.True(t, strings.HasSuffix(prompt, activityContract))
	for _, key := range []string{"title", "description", "instructions", "scientificConcepts", "extensions", "safetyNotes"} {
		assert.Contains(t, prompt, `"`+key+`"`)
	}

	empty := buildActivityPrompt(activityPrompt{})
	assert.Contains(t, empty, "- None specified")
	assert.True(t, strings.HasSuffix(empty, activityContract))
}
