// Package lessons generates preschool lesson plans from catalog templates
// or free-form requests and persists the accepted ones.
package lessons

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/store"
	"github.com/abhisek/tinysteps/internal/usage"
)

// Generator orchestrates lesson generation. It is safe for concurrent use.
type Generator struct {
	client  *ai.Client
	lessons store.LessonRepo
	log     *logger.Logger

	mu   sync.Mutex
	intn func(n int) int
}

// NewGenerator creates a lesson generator. lessons may be nil when lessons
// are never saved.
func NewGenerator(client *ai.Client, lessons store.LessonRepo, opts ...Option) *Generator {
	g := &Generator{
		client:  client,
		lessons: lessons,
		log:     logger.Nop(),
		intn:    defaultIntn,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Templates returns the template catalog.
func (g *Generator) Templates() []Template {
	return Templates()
}

// Template returns one template or a NotFound error.
func (g *Generator) Template(id string) (*Template, error) {
	t, ok := LookupTemplate(id)
	if !ok {
		return nil, ai.NotFound("Template not found")
	}
	return &t, nil
}

// GenerateFromTemplate generates a lesson from a catalog template. The
// template is resolved before any completion call.
func (g *Generator) GenerateFromTemplate(ctx context.Context, req TemplateRequest) (*GeneratedLesson, error) {
	tmpl, err := g.Template(req.TemplateID)
	if err != nil {
		return nil, err
	}
	if !g.client.Available() {
		return nil, ai.ErrUnavailable
	}

	objectives := req.CustomObjectives
	if len(objectives) == 0 {
		objectives = DefaultObjectives(tmpl.Subjects, tmpl.AgeGroup)
	}

	prompt := buildLessonPrompt(lessonPrompt{
		Topic:         tmpl.Title,
		Description:   tmpl.Description,
		Subjects:      tmpl.Subjects,
		AgeGroup:      tmpl.AgeGroup,
		Duration:      tmpl.DurationMinutes,
		Objectives:    objectives,
		ActivityTypes: tmpl.ActivityTypes,
		Materials:     tmpl.Materials,
		Notes:         req.Notes,
	})

	content, err := g.generate(ctx, req.UserID, req.TenantID, prompt)
	if err != nil {
		g.log.Warn("template lesson generation failed", "template_id", tmpl.ID, "tenant_id", req.TenantID, "error", err)
		return nil, err
	}
	g.log.Info("lesson generated", "template_id", tmpl.ID, "tenant_id", req.TenantID, "activities", len(content.Activities))

	return &GeneratedLesson{
		Template:   tmpl,
		Content:    *content,
		Objectives: objectives,
		AgeGroup:   tmpl.AgeGroup,
		Subjects:   tmpl.Subjects,
		Duration:   tmpl.DurationMinutes,
	}, nil
}

// GenerateCustom generates a lesson from free-form parameters. Each
// objective is prefixed with a word from the difficulty tier's bank; with
// no objectives the defaults for the subjects and age group are used.
func (g *Generator) GenerateCustom(ctx context.Context, req CustomRequest) (*GeneratedLesson, error) {
	if !g.client.Available() {
		return nil, ai.ErrUnavailable
	}

	objectives := req.Objectives
	if len(objectives) == 0 {
		objectives = DefaultObjectives(req.Subjects, req.AgeGroup)
	}
	objectives = g.decorate(objectives, req.Difficulty)

	prompt := buildLessonPrompt(lessonPrompt{
		Topic:      req.Topic,
		Subjects:   req.Subjects,
		AgeGroup:   req.AgeGroup,
		Duration:   req.DurationMinutes,
		Objectives: objectives,
		Notes:      req.Notes,
	})

	content, err := g.generate(ctx, req.UserID, req.TenantID, prompt)
	if err != nil {
		g.log.Warn("custom lesson generation failed", "topic", req.Topic, "tenant_id", req.TenantID, "error", err)
		return nil, err
	}
	g.log.Info("lesson generated", "topic", req.Topic, "tenant_id", req.TenantID, "activities", len(content.Activities))

	return &GeneratedLesson{
		Content:    *content,
		Objectives: objectives,
		AgeGroup:   req.AgeGroup,
		Subjects:   req.Subjects,
		Duration:   req.DurationMinutes,
	}, nil
}

func (g *Generator) generate(ctx context.Context, userID, tenantID, prompt string) (*LessonContent, error) {
	return ai.Generate[LessonContent](ctx, g.client, ai.Call{
		UserID:   userID,
		TenantID: tenantID,
		Feature:  usage.FeatureLessonGeneration,
		Prompt:   prompt,
		Schema:   LessonContentSchema,
	})
}

func (g *Generator) decorate(objectives []string, difficulty string) []string {
	words := DifficultyWords(difficulty)
	out := make([]string, len(objectives))

	g.mu.Lock()
	defer g.mu.Unlock()
	for i, obj := range objectives {
		out[i] = words[g.intn(len(words))] + " " + lowerFirst(strings.TrimSpace(obj))
	}
	return out
}

func lowerFirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToLower(r)) + s[size:]
}

// Save persists a generated lesson and its activities in one transaction
// and returns the new lesson id.
func (g *Generator) Save(ctx context.Context, req SaveRequest) (string, error) {
	if g.lessons == nil {
		return "", errors.New("lesson store not configured")
	}

	c := req.Lesson.Content
	rec := &store.LessonRecord{
		TenantID:            req.TenantID,
		TeacherID:           req.TeacherID,
		CategoryID:          req.CategoryID,
		Title:               c.Title,
		Description:         c.Description,
		Content:             c.Content,
		AgeGroup:            req.Lesson.AgeGroup,
		DurationMinutes:     req.Lesson.Duration,
		Objectives:          req.Lesson.Objectives,
		AssessmentQuestions: c.AssessmentQuestions,
		HomeExtension:       c.HomeExtension,
		AIGenerated:         true,
	}
	if req.Lesson.Template != nil {
		rec.TemplateID = req.Lesson.Template.ID
	}
	for _, a := range c.Activities {
		rec.Activities = append(rec.Activities, store.ActivityRecord{
			Title:            a.Title,
			Description:      a.Description,
			Instructions:     a.Instructions,
			Materials:        a.Materials,
			EstimatedMinutes: a.EstimatedTime,
		})
	}

	if err := g.lessons.CreateWithActivities(ctx, rec); err != nil {
		return "", fmt.Errorf("save lesson: %w", err)
	}
	g.log.Info("lesson saved", "lesson_id", rec.ID, "tenant_id", req.TenantID, "activities", len(rec.Activities))
	return rec.ID, nil
}

// Lesson reads a saved lesson back.
func (g *Generator) Lesson(ctx context.Context, id string) (*store.LessonRecord, error) {
	if g.lessons == nil {
		return nil, errors.New("lesson store not configured")
	}
	rec, err := g.lessons.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ai.NotFound("Lesson not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	return rec, nil
}
