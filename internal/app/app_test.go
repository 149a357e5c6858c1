package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/tinysteps/internal/config"
	"github.com/abhisek/tinysteps/internal/lessons"
	"github.com/abhisek/tinysteps/internal/llm"
	"github.com/abhisek/tinysteps/internal/store"
	"github.com/abhisek/tinysteps/internal/usage"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		LLM:     llm.DefaultConfig(),
		DB:      config.DBConfig{Driver: store.DriverSQLite, DSN: "file:" + uuid.NewString() + "?mode=memory&cache=shared"},
		Usage:   config.UsageConfig{Backend: backend},
		Grading: config.GradingConfig{BatchConcurrency: 2},
	}
}

func TestNew_WithoutCredential(t *testing.T) {
	a, err := New(context.Background(), testConfig(config.UsageMemory), nil, Options{})
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Client.Available())
	assert.NotNil(t, a.Lessons)
	assert.NotNil(t, a.Grader)
	assert.NotNil(t, a.STEM)
}

func TestNew_MockProviderFromConfig(t *testing.T) {
	cfg := testConfig(config.UsageMemory)
	cfg.LLM.Provider = "mock"
	cfg.LLMConfigured = true

	a, err := New(context.Background(), cfg, nil, Options{})
	require.NoError(t, err)
	defer a.Close()
	assert.True(t, a.Client.Available())
}

func TestNew_EndToEndLessonWithFileUsage(t *testing.T) {
	cfg := testConfig(config.UsageFile)
	cfg.Usage.Path = filepath.Join(t.TempDir(), "usage.json")

	mock := llm.NewMockProvider(llm.MockText(`{
		"title": "Counting Bears",
		"description": "Counting to ten",
		"content": "We count bears.",
		"activities": [{"title": "Bear line", "description": "Line up bears", "instructions": "Count aloud", "materials": ["bears"], "estimatedTime": 10}],
		"assessmentQuestions": ["How many bears?"],
		"homeExtension": ["Count spoons"]
	}`, 1500))

	a, err := New(context.Background(), cfg, nil, Options{Provider: mock})
	require.NoError(t, err)

	ctx := context.Background()
	lesson, err := a.Lessons.GenerateFromTemplate(ctx, lessons.TemplateRequest{UserID: "teacher-1", TenantID: "school-1", TemplateID: "counting-fun"})
	require.NoError(t, err)
	id, err := a.Lessons.Save(ctx, lessons.SaveRequest{TenantID: "school-1", TeacherID: "teacher-1", Lesson: *lesson})
	require.NoError(t, err)

	saved, err := a.Store.Lessons().Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Counting Bears", saved.Title)
	require.NoError(t, a.Close())

	records, err := usage.NewFileStorage(cfg.Usage.Path).Load(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, usage.FeatureLessonGeneration, records[0].Feature)
	assert.Equal(t, 1500, records[0].TokensUsed)
}

func TestNew_BadDatabase(t *testing.T) {
	cfg := testConfig(config.UsageMemory)
	cfg.DB.Driver = store.DriverPostgres
	cfg.DB.DSN = ""
	_, err := New(context.Background(), cfg, nil, Options{})
	assert.Error(t, err)
}
