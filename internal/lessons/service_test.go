package lessons

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/llm"
	"github.com/abhisek/tinysteps/internal/store"
	"github.com/abhisek/tinysteps/internal/usage"
)

const validLessonJSON = `{
	"title": "Rainbow Shapes",
	"description": "Sorting and gluing colorful shapes.",
	"content": "Children explore circles, squares and triangles in many colors.",
	"activities": [
		{"title": "Shape hunt", "description": "Find shapes in the room", "instructions": "Hide paper shapes around the room.", "materials": ["paper shapes"], "estimatedTime": 10},
		{"title": "Color collage", "description": "Glue shapes by color", "instructions": "Give each child a sheet and glue.", "materials": ["glue sticks", "paper"], "estimatedTime": 20}
	],
	"assessmentQuestions": ["What color is this circle?"],
	"homeExtension": ["Find three round things at home."]
}`

func newGenerator(t *testing.T, mock *llm.MockProvider, opts ...Option) (*Generator, *usage.Recorder) {
	t.Helper()
	rec := usage.NewRecorder()
	t.Cleanup(rec.Close)
	var provider llm.Provider
	if mock != nil {
		provider = mock
	}
	return NewGenerator(ai.NewClient(provider, rec), nil, opts...), rec
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(store.DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestGenerateFromTemplate_UsesDefaultObjectives(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validLessonJSON, 900))
	g, rec := newGenerator(t, mock)

	lesson, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{
		UserID:     "teacher-1",
		TenantID:   "school-1",
		TemplateID: "colors-and-shapes",
	})
	require.NoError(t, err)

	want := DefaultObjectives([]string{"art", "math"}, AgePreschool)
	assert.Equal(t, want, lesson.Objectives)
	require.NotNil(t, lesson.Template)
	assert.Equal(t, "colors-and-shapes", lesson.Template.ID)
	assert.Equal(t, AgePreschool, lesson.AgeGroup)
	assert.Equal(t, 30, lesson.Duration)
	assert.Equal(t, "Rainbow Shapes", lesson.Content.Title)
	require.Len(t, lesson.Content.Activities, 2)
	assert.Equal(t, 20, lesson.Content.Activities[1].EstimatedTime)

	req, ok := mock.LastCall()
	require.True(t, ok)
	require.Len(t, req.Messages, 1)
	for _, obj := range want {
		assert.Contains(t, req.Messages[0].Content, obj)
	}
	assert.Equal(t, 4000, req.MaxTokens)
	assert.InDelta(t, 0.7, req.Temperature, 1e-9)
	assert.Same(t, LessonContentSchema, req.Schema)

	stats := rec.Stats("school-1")
	assert.Equal(t, 900, stats.TotalTokens)
	assert.Equal(t, 1, stats.FeatureBreakdown[usage.FeatureLessonGeneration])
}

func TestGenerateFromTemplate_CustomObjectivesOverride(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validLessonJSON, 10))
	g, _ := newGenerator(t, mock)

	custom := []string{"Name the shape of a wheel"}
	lesson, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{
		TemplateID:       "colors-and-shapes",
		CustomObjectives: custom,
	})
	require.NoError(t, err)
	assert.Equal(t, custom, lesson.Objectives)

	req, _ := mock.LastCall()
	assert.Contains(t, req.Messages[0].Content, "Name the shape of a wheel")
	assert.NotContains(t, req.Messages[0].Content, "Identify and name primary colors")
}

func TestGenerateFromTemplate_NotFoundMakesNoCall(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(validLessonJSON, 10))
	g, _ := newGenerator(t, mock)

	lesson, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{TemplateID: "underwater-basket-weaving"})
	assert.Nil(t, lesson)
	assert.Equal(t, ai.KindNotFound, ai.KindOf(err))
	assert.Equal(t, "Template not found", ai.Message(err))
	assert.Equal(t, 0, mock.CallCount())
}

func TestGenerate_Unavailable(t *testing.T) {
	g, _ := newGenerator(t, nil)

	_, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{TemplateID: "counting-fun"})
	assert.ErrorIs(t, err, ai.ErrUnavailable)

	_, err = g.GenerateCustom(context.Background(), CustomRequest{Topic: "Bugs"})
	assert.ErrorIs(t, err, ai.ErrUnavailable)
}

func TestGenerate_MalformedReplyReturnsNothing(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText("Sure! Here is a lovely lesson about shapes.", 50))
	g, rec := newGenerator(t, mock)

	lesson, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{TenantID: "school-1", TemplateID: "counting-fun"})
	assert.Nil(t, lesson)
	assert.Equal(t, ai.KindParse, ai.KindOf(err))
	assert.Equal(t, 1, rec.Stats("school-1").TotalQueries, "the completion itself succeeded")
}

func TestGenerate_WrongShape(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockText(`{"title": "Only a title"}`, 50))
	g, _ := newGenerator(t, mock)

	lesson, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{TemplateID: "counting-fun"})
	assert.Nil(t, lesson)
	assert.Equal(t, ai.KindInvalidShape, ai.KindOf(err))
}

func TestGenerate_TransportFailure(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrRateLimit{}})
	g, _ := newGenerator(t, mock)

	_, err := g.GenerateFromTemplate(context.Background(), TemplateRequest{TemplateID: "counting-fun"})
	assert.Equal(t, ai.KindTransport, ai.KindOf(err))
}

func TestGenerateCustom_DecoratesObjectives(t *testing.T) {
	mock := llm.NewMockProvider(
		llm.MockText(validLessonJSON, 10),
		llm.MockText(validLessonJSON, 10),
	)
	g, _ := newGenerator(t, mock, WithIntn(func(int) int { return 0 }))

	lesson, err := g.GenerateCustom(context.Background(), CustomRequest{
		Topic:           "Bugs in the garden",
		Subjects:        []string{"science"},
		AgeGroup:        AgePreK,
		DurationMinutes: 35,
		Difficulty:      DifficultyAdvanced,
		Objectives:      []string{"Count the legs of an insect", "Draw a ladybug"},
	})
	require.NoError(t, err)
	assert.Nil(t, lesson.Template)
	assert.Equal(t, []string{"Master count the legs of an insect", "Master draw a ladybug"}, lesson.Objectives)
	assert.Equal(t, 35, lesson.Duration)

	req, _ := mock.LastCall()
	assert.Contains(t, req.Messages[0].Content, "Topic: Bugs in the garden")
	assert.Contains(t, req.Messages[0].Content, "- Master draw a ladybug")

	lesson, err = g.GenerateCustom(context.Background(), CustomRequest{
		Subjects:   []string{"math"},
		AgeGroup:   AgeToddler,
		Difficulty: "unheard-of",
	})
	require.NoError(t, err)
	require.Len(t, lesson.Objectives, 2)
	for _, obj := range lesson.Objectives {
		assert.True(t, strings.HasPrefix(obj, "Begin to "), obj)
	}
}

func TestGenerateCustom_PrefixComesFromTierBank(t *testing.T) {
	g, _ := newGenerator(t, llm.NewMockProvider())

	for _, tier := range []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced} {
		for _, obj := range g.decorate([]string{"Sort buttons", "Sing a song", "Stack blocks"}, tier) {
			found := false
			for _, w := range DifficultyWords(tier) {
				if strings.HasPrefix(obj, w+" ") {
					found = true
				}
			}
			assert.True(t, found, "%s: %q", tier, obj)
		}
	}
}

func TestSaveAndLoadLesson(t *testing.T) {
	s := openTestStore(t)
	mock := llm.NewMockProvider(llm.MockText(validLessonJSON, 10))
	g := NewGenerator(ai.NewClient(mock, nil), s.Lessons())
	ctx := context.Background()

	generated, err := g.GenerateFromTemplate(ctx, TemplateRequest{TemplateID: "colors-and-shapes"})
	require.NoError(t, err)

	cat := &store.Category{TenantID: "school-1", Name: "art"}
	require.NoError(t, s.Categories().Create(ctx, cat))

	id, err := g.Save(ctx, SaveRequest{
		TenantID:   "school-1",
		TeacherID:  "teacher-1",
		CategoryID: cat.ID,
		Lesson:     *generated,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := g.Lesson(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Rainbow Shapes", got.Title)
	assert.Equal(t, "colors-and-shapes", got.TemplateID)
	assert.Equal(t, generated.Objectives, got.Objectives)
	assert.Equal(t, []string{"Find three round things at home."}, got.HomeExtension)
	require.Len(t, got.Activities, 2)
	assert.Equal(t, "Color collage", got.Activities[1].Title)
	assert.Equal(t, 20, got.Activities[1].EstimatedMinutes)
}

func TestLesson_NotFound(t *testing.T) {
	s := openTestStore(t)
	g := NewGenerator(ai.NewClient(nil, nil), s.Lessons())

	_, err := g.Lesson(context.Background(), "missing")
	assert.Equal(t, ai.KindNotFound, ai.KindOf(err))
}

func TestSave_WithoutStore(t *testing.T) {
	g := NewGenerator(ai.NewClient(nil, nil), nil)
	_, err := g.Save(context.Background(), SaveRequest{})
	assert.Error(t, err)
}

func TestLessonContent_RoundTrip(t *testing.T) {
	content, err := ai.Decode[LessonContent]([]byte(validLessonJSON), LessonContentSchema)
	require.NoError(t, err)

	data, err := json.Marshal(content)
	require.NoError(t, err)
	again, err := ai.Decode[LessonContent](data, LessonContentSchema)
	require.NoError(t, err)
	assert.Equal(t, content, again)
}
