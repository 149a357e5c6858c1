package store

import (
	"context"
	"fmt"
	"strings"

	"entgo.io/ent/dialect"
)

// tables lists the DDL in dependency order. Column types written as
// {placeholders} are resolved per dialect by columnTypes.
var tables = []string{
	`CREATE TABLE IF NOT EXISTS lesson_categories (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		name TEXT NOT NULL,
		created_at {ts} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lessons (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		teacher_id TEXT NOT NULL,
		category_id TEXT REFERENCES lesson_categories(id),
		template_id TEXT NOT NULL DEFAULT '',
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL DEFAULT '',
		age_group TEXT NOT NULL DEFAULT '',
		duration_minutes INTEGER NOT NULL DEFAULT 0,
		objectives TEXT NOT NULL DEFAULT '[]',
		assessment_questions TEXT NOT NULL DEFAULT '[]',
		home_extension TEXT NOT NULL DEFAULT '[]',
		ai_generated {bool} NOT NULL DEFAULT FALSE,
		created_at {ts} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS lesson_activities (
		id TEXT PRIMARY KEY,
		lesson_id TEXT NOT NULL REFERENCES lessons(id) ON DELETE CASCADE,
		position INTEGER NOT NULL,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		instructions TEXT NOT NULL DEFAULT '',
		materials TEXT NOT NULL DEFAULT '[]',
		estimated_minutes INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS assignments (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		lesson_id TEXT REFERENCES lessons(id),
		title TEXT NOT NULL,
		assignment_type TEXT NOT NULL,
		created_at {ts} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS homework_submissions (
		id TEXT PRIMARY KEY,
		tenant_id TEXT NOT NULL,
		assignment_id TEXT NOT NULL REFERENCES assignments(id),
		student_id TEXT NOT NULL,
		student_age INTEGER NOT NULL DEFAULT 0,
		content TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'submitted',
		grade TEXT NOT NULL DEFAULT '',
		teacher_feedback TEXT NOT NULL DEFAULT '',
		grading_json TEXT NOT NULL DEFAULT '',
		ai_confidence {float} NOT NULL DEFAULT 0,
		graded_at {ts},
		reviewed_by TEXT NOT NULL DEFAULT '',
		submitted_at {ts} NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS teacher_reviews (
		id TEXT PRIMARY KEY,
		submission_id TEXT NOT NULL REFERENCES homework_submissions(id),
		reviewer_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		approved {bool} NOT NULL,
		modifications TEXT NOT NULL DEFAULT '',
		additional_notes TEXT NOT NULL DEFAULT '',
		created_at {ts} NOT NULL,
		UNIQUE (submission_id, version)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id {serial},
		created_at {ts} NOT NULL,
		provider TEXT NOT NULL,
		model TEXT NOT NULL,
		purpose TEXT NOT NULL,
		tenant_id TEXT NOT NULL DEFAULT '',
		input_tokens INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms INTEGER NOT NULL DEFAULT 0,
		success {bool} NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_student ON homework_submissions (student_id, status)`,
	`CREATE INDEX IF NOT EXISTS idx_llm_events_purpose ON llm_request_events (purpose)`,
}

func columnTypes(d string) *strings.Replacer {
	if d == dialect.Postgres {
		return strings.NewReplacer(
			"{ts}", "TIMESTAMPTZ",
			"{bool}", "BOOLEAN",
			"{float}", "DOUBLE PRECISION",
			"{serial}", "BIGSERIAL PRIMARY KEY",
		)
	}
	return strings.NewReplacer(
		"{ts}", "DATETIME",
		"{bool}", "BOOLEAN",
		"{float}", "REAL",
		"{serial}", "INTEGER PRIMARY KEY AUTOINCREMENT",
	)
}

// migrate creates any missing tables and indexes.
func (s *Store) migrate(ctx context.Context) error {
	r := columnTypes(s.dialect)
	for _, ddl := range tables {
		if _, err := s.db.ExecContext(ctx, r.Replace(ddl)); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}
