package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type categoryRepo struct{ s *Store }

func (r *categoryRepo) Create(ctx context.Context, c *Category) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	query, args := r.s.builder().Insert("lesson_categories").
		Columns("id", "tenant_id", "name", "created_at").
		Values(c.ID, c.TenantID, c.Name, c.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save lesson category: %w", err)
	}
	return nil
}

type lessonRepo struct{ s *Store }

var lessonColumns = []string{
	"id", "tenant_id", "teacher_id", "category_id", "template_id", "title",
	"description", "content", "age_group", "duration_minutes", "objectives",
	"assessment_questions", "home_extension", "ai_generated", "created_at",
}

func (r *lessonRepo) CreateWithActivities(ctx context.Context, l *LessonRecord) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = now()
	}

	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	b := r.s.builder()
	query, args := b.Insert("lessons").
		Columns(lessonColumns...).
		Values(
			l.ID, l.TenantID, l.TeacherID, nullable(l.CategoryID), l.TemplateID, l.Title,
			l.Description, l.Content, l.AgeGroup, l.DurationMinutes, encodeList(l.Objectives),
			encodeList(l.AssessmentQuestions), encodeList(l.HomeExtension), l.AIGenerated, l.CreatedAt,
		).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save lesson: %w", err)
	}

	for i := range l.Activities {
		a := &l.Activities[i]
		if a.ID == "" {
			a.ID = uuid.NewString()
		}
		a.LessonID = l.ID
		a.Position = i
		query, args := b.Insert("lesson_activities").
			Columns("id", "lesson_id", "position", "title", "description",
				"instructions", "materials", "estimated_minutes").
			Values(a.ID, a.LessonID, a.Position, a.Title, a.Description,
				a.Instructions, encodeList(a.Materials), a.EstimatedMinutes).
			Query()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("save lesson activity %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lesson: %w", err)
	}
	return nil
}

func (r *lessonRepo) Get(ctx context.Context, id string) (*LessonRecord, error) {
	b := r.s.builder()
	query, args := b.Select(lessonColumns...).
		From(b.Table("lessons")).
		Where(entsql.EQ("id", id)).
		Query()

	var (
		l                            LessonRecord
		categoryID                   sql.NullString
		objectives, questions, homes string
	)
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(
		&l.ID, &l.TenantID, &l.TeacherID, &categoryID, &l.TemplateID, &l.Title,
		&l.Description, &l.Content, &l.AgeGroup, &l.DurationMinutes, &objectives,
		&questions, &homes, &l.AIGenerated, &l.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query lesson: %w", err)
	}
	l.CategoryID = categoryID.String
	l.Objectives = decodeList(objectives)
	l.AssessmentQuestions = decodeList(questions)
	l.HomeExtension = decodeList(homes)

	query, args = b.Select("id", "lesson_id", "position", "title", "description",
		"instructions", "materials", "estimated_minutes").
		From(b.Table("lesson_activities")).
		Where(entsql.EQ("lesson_id", id)).
		OrderBy("position").
		Query()
	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query lesson activities: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var a ActivityRecord
		var materials string
		if err := rows.Scan(&a.ID, &a.LessonID, &a.Position, &a.Title, &a.Description,
			&a.Instructions, &materials, &a.EstimatedMinutes); err != nil {
			return nil, fmt.Errorf("scan lesson activity: %w", err)
		}
		a.Materials = decodeList(materials)
		l.Activities = append(l.Activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate lesson activities: %w", err)
	}
	return &l, nil
}

type assignmentRepo struct{ s *Store }

func (r *assignmentRepo) Create(ctx context.Context, a *Assignment) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}
	query, args := r.s.builder().Insert("assignments").
		Columns("id", "tenant_id", "lesson_id", "title", "assignment_type", "created_at").
		Values(a.ID, a.TenantID, nullable(a.LessonID), a.Title, a.AssignmentType, a.CreatedAt).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save assignment: %w", err)
	}
	return nil
}

// now returns the current time as stored: UTC, whole seconds.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// nullable maps an empty optional reference to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func encodeList(items []string) string {
	if len(items) == 0 {
		return "[]"
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "[]"
	}
	return string(b)
}

func decodeList(raw string) []string {
	var items []string
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil
	}
	return items
}
