package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

type submissionRepo struct{ s *Store }

var submissionColumns = []string{
	"id", "tenant_id", "assignment_id", "student_id", "student_age", "content",
	"status", "grade", "teacher_feedback", "grading_json", "ai_confidence",
	"graded_at", "reviewed_by", "submitted_at",
}

func (r *submissionRepo) Create(ctx context.Context, sub *Submission) error {
	if sub.ID == "" {
		sub.ID = uuid.NewString()
	}
	if sub.Status == "" {
		sub.Status = StatusSubmitted
	}
	if sub.SubmittedAt.IsZero() {
		sub.SubmittedAt = now()
	}
	var gradedAt any
	if sub.GradedAt != nil {
		gradedAt = sub.GradedAt.UTC()
	}

	query, args := r.s.builder().Insert("homework_submissions").
		Columns(submissionColumns...).
		Values(
			sub.ID, sub.TenantID, sub.AssignmentID, sub.StudentID, sub.StudentAge, sub.Content,
			sub.Status, sub.Grade, sub.TeacherFeedback, sub.GradingJSON, sub.AIConfidence,
			gradedAt, sub.ReviewedBy, sub.SubmittedAt,
		).
		Query()
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save submission: %w", err)
	}
	return nil
}

func (r *submissionRepo) Get(ctx context.Context, id string) (*Submission, error) {
	b := r.s.builder()
	query, args := b.Select(submissionColumns...).
		From(b.Table("homework_submissions")).
		Where(entsql.EQ("id", id)).
		Query()

	var sub Submission
	var gradedAt sql.NullTime
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(
		&sub.ID, &sub.TenantID, &sub.AssignmentID, &sub.StudentID, &sub.StudentAge, &sub.Content,
		&sub.Status, &sub.Grade, &sub.TeacherFeedback, &sub.GradingJSON, &sub.AIConfidence,
		&gradedAt, &sub.ReviewedBy, &sub.SubmittedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}
	if gradedAt.Valid {
		t := gradedAt.Time
		sub.GradedAt = &t
	}
	return &sub, nil
}

func (r *submissionRepo) SaveGrading(ctx context.Context, u GradingUpdate) error {
	gradedAt := u.GradedAt.UTC().Truncate(time.Second)
	if u.GradedAt.IsZero() {
		gradedAt = now()
	}
	query, args := r.s.builder().Update("homework_submissions").
		Set("status", StatusGraded).
		Set("grade", u.Grade).
		Set("teacher_feedback", u.TeacherFeedback).
		Set("grading_json", u.GradingJSON).
		Set("ai_confidence", u.AIConfidence).
		Set("graded_at", gradedAt).
		Where(entsql.And(
			entsql.EQ("id", u.SubmissionID),
			entsql.EQ("tenant_id", u.TenantID),
		)).
		Query()

	res, err := r.s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("save grading: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *submissionRepo) AppendReview(ctx context.Context, tenantID string, rev *Review) error {
	tx, err := r.s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	b := r.s.builder()
	query, args := b.Select(entsql.Max("version")).
		From(b.Table("teacher_reviews")).
		Where(entsql.EQ("submission_id", rev.SubmissionID)).
		Query()
	var latest sql.NullInt64
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&latest); err != nil {
		return fmt.Errorf("query review version: %w", err)
	}

	query, args = b.Update("homework_submissions").
		Set("status", StatusReviewed).
		Set("reviewed_by", rev.ReviewerID).
		Where(entsql.And(
			entsql.EQ("id", rev.SubmissionID),
			entsql.EQ("tenant_id", tenantID),
		)).
		Query()
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("mark submission reviewed: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if rev.ID == "" {
		rev.ID = uuid.NewString()
	}
	rev.Version = int(latest.Int64) + 1
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = now()
	}
	query, args = b.Insert("teacher_reviews").
		Columns("id", "submission_id", "reviewer_id", "version", "approved",
			"modifications", "additional_notes", "created_at").
		Values(rev.ID, rev.SubmissionID, rev.ReviewerID, rev.Version, rev.Approved,
			rev.Modifications, rev.AdditionalNotes, rev.CreatedAt).
		Query()
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save review: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit review: %w", err)
	}
	return nil
}

func (r *submissionRepo) Reviews(ctx context.Context, tenantID, submissionID string) ([]Review, error) {
	b := r.s.builder()
	query, args := b.Select("id").
		From(b.Table("homework_submissions")).
		Where(entsql.And(
			entsql.EQ("id", submissionID),
			entsql.EQ("tenant_id", tenantID),
		)).
		Query()
	var owned string
	err := r.s.db.QueryRowContext(ctx, query, args...).Scan(&owned)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query submission: %w", err)
	}

	query, args = b.Select("id", "submission_id", "reviewer_id", "version", "approved",
		"modifications", "additional_notes", "created_at").
		From(b.Table("teacher_reviews")).
		Where(entsql.EQ("submission_id", submissionID)).
		OrderBy("version").
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var out []Review
	for rows.Next() {
		var rev Review
		if err := rows.Scan(&rev.ID, &rev.SubmissionID, &rev.ReviewerID, &rev.Version,
			&rev.Approved, &rev.Modifications, &rev.AdditionalNotes, &rev.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (r *submissionRepo) GradedForStudent(ctx context.Context, tenantID, studentID string, from, to time.Time) ([]GradedRow, error) {
	b := r.s.builder()
	sub := b.Table("homework_submissions").As("s")
	asg := b.Table("assignments").As("a")
	les := b.Table("lessons").As("l")
	cat := b.Table("lesson_categories").As("c")

	query, args := b.Select(sub.C("id"), asg.C("assignment_type"), cat.C("name"), sub.C("grade"), sub.C("graded_at")).
		From(sub).
		Join(asg).On(sub.C("assignment_id"), asg.C("id")).
		LeftJoin(les).On(asg.C("lesson_id"), les.C("id")).
		LeftJoin(cat).On(les.C("category_id"), cat.C("id")).
		Where(entsql.And(
			entsql.EQ(sub.C("tenant_id"), tenantID),
			entsql.EQ(sub.C("student_id"), studentID),
			entsql.In(sub.C("status"), StatusGraded, StatusReviewed),
		)).
		Query()

	rows, err := r.s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query graded submissions: %w", err)
	}
	defer rows.Close()

	// The range filter runs here: SQLite keeps timestamps as text, so a
	// SQL comparison would depend on the driver's formatting.
	var out []GradedRow
	for rows.Next() {
		var row GradedRow
		var category sql.NullString
		var gradedAt sql.NullTime
		if err := rows.Scan(&row.SubmissionID, &row.AssignmentType, &category, &row.Grade, &gradedAt); err != nil {
			return nil, fmt.Errorf("scan graded submission: %w", err)
		}
		if !gradedAt.Valid {
			continue
		}
		row.GradedAt = gradedAt.Time
		if !from.IsZero() && row.GradedAt.Before(from) {
			continue
		}
		if !to.IsZero() && row.GradedAt.After(to) {
			continue
		}
		row.Category = category.String
		if row.Category == "" {
			row.Category = "general"
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate graded submissions: %w", err)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].GradedAt.Before(out[j].GradedAt) })
	return out, nil
}
