package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(DriverSQLite, "file:"+uuid.NewString()+"?mode=memory&cache=shared")
	require.NoError(t, err, "open test store")
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open("oracle", "")
	assert.Error(t, err)
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)

	// journal_mode reports "memory" for in-memory databases, so only the
	// remaining pragmas are checked.
	for pragma, want := range map[string]string{"foreign_keys": "1", "synchronous": "1"} {
		var got string
		require.NoError(t, s.DB().QueryRow("PRAGMA "+pragma).Scan(&got))
		assert.Equal(t, want, got, pragma)
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	assert.NoError(t, s.migrate(context.Background()))
}

func seedLesson(t *testing.T, s *Store, categoryName string) *LessonRecord {
	t.Helper()
	ctx := context.Background()

	cat := &Category{TenantID: "school-1", Name: categoryName}
	require.NoError(t, s.Categories().Create(ctx, cat))

	lesson := &LessonRecord{
		TenantID:        "school-1",
		TeacherID:       "teacher-1",
		CategoryID:      cat.ID,
		TemplateID:      "colors-and-shapes",
		Title:           "Rainbow Shapes",
		AgeGroup:        "preschool",
		DurationMinutes: 30,
		Objectives:      []string{"Name three colors"},
		AIGenerated:     true,
		Activities: []ActivityRecord{
			{Title: "Shape hunt", Materials: []string{"paper shapes"}, EstimatedMinutes: 10},
			{Title: "Color sort", Materials: []string{"buttons", "cups"}, EstimatedMinutes: 15},
		},
	}
	require.NoError(t, s.Lessons().CreateWithActivities(ctx, lesson))
	return lesson
}

func TestLessonCreateAndGet(t *testing.T) {
	s := openTestStore(t)
	lesson := seedLesson(t, s, "art")

	got, err := s.Lessons().Get(context.Background(), lesson.ID)
	require.NoError(t, err)

	assert.Equal(t, "Rainbow Shapes", got.Title)
	assert.Equal(t, lesson.CategoryID, got.CategoryID)
	assert.Equal(t, []string{"Name three colors"}, got.Objectives)
	assert.True(t, got.AIGenerated)
	assert.WithinDuration(t, lesson.CreatedAt, got.CreatedAt, time.Second)
	require.Len(t, got.Activities, 2)
	assert.Equal(t, "Shape hunt", got.Activities[0].Title)
	assert.Equal(t, 1, got.Activities[1].Position)
	assert.Equal(t, []string{"buttons", "cups"}, got.Activities[1].Materials)
}

func TestLessonGet_NotFound(t *testing.T) {
	s := openTestStore(t)
	_, err := s.Lessons().Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLessonCreate_RollsBackOnActivityFailure(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	dup := uuid.NewString()
	lesson := &LessonRecord{
		TenantID:  "school-1",
		TeacherID: "teacher-1",
		Title:     "Doomed",
		Activities: []ActivityRecord{
			{ID: dup, Title: "first"},
			{ID: dup, Title: "second"},
		},
	}
	require.Error(t, s.Lessons().CreateWithActivities(ctx, lesson))

	_, err := s.Lessons().Get(ctx, lesson.ID)
	assert.ErrorIs(t, err, ErrNotFound, "lesson row must not outlive a failed activity insert")
}

func seedSubmission(t *testing.T, s *Store, lessonID, studentID string) *Submission {
	t.Helper()
	ctx := context.Background()

	asg := &Assignment{TenantID: "school-1", LessonID: lessonID, Title: "Draw a rainbow", AssignmentType: "drawing_art"}
	require.NoError(t, s.Assignments().Create(ctx, asg))

	sub := &Submission{TenantID: "school-1", AssignmentID: asg.ID, StudentID: studentID, StudentAge: 4, Content: "crayon rainbow"}
	require.NoError(t, s.Submissions().Create(ctx, sub))
	return sub
}

func TestSubmissionGradingAndReviews(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lesson := seedLesson(t, s, "art")
	sub := seedSubmission(t, s, lesson.ID, "student-1")
	repo := s.Submissions()

	gradedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.SaveGrading(ctx, GradingUpdate{
		TenantID:        "school-1",
		SubmissionID:    sub.ID,
		Grade:           "Good",
		TeacherFeedback: "Lovely colors",
		GradingJSON:     `{"grade":"Good"}`,
		AIConfidence:    0.8,
		GradedAt:        gradedAt,
	}))

	got, err := repo.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusGraded, got.Status)
	assert.Equal(t, "Good", got.Grade)
	assert.InDelta(t, 0.8, got.AIConfidence, 1e-9)
	require.NotNil(t, got.GradedAt)
	assert.True(t, gradedAt.Equal(*got.GradedAt))

	first := &Review{SubmissionID: sub.ID, ReviewerID: "teacher-1", Approved: true}
	require.NoError(t, repo.AppendReview(ctx, "school-1", first))
	second := &Review{SubmissionID: sub.ID, ReviewerID: "teacher-2", Modifications: `{"grade":"Excellent"}`}
	require.NoError(t, repo.AppendReview(ctx, "school-1", second))
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)

	reviews, err := repo.Reviews(ctx, "school-1", sub.ID)
	require.NoError(t, err)
	require.Len(t, reviews, 2)
	assert.True(t, reviews[0].Approved)
	assert.Equal(t, `{"grade":"Excellent"}`, reviews[1].Modifications)

	got, err = repo.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusReviewed, got.Status)
	assert.Equal(t, "teacher-2", got.ReviewedBy)
	assert.Equal(t, "Good", got.Grade, "AI grade is kept under a review")
}

func TestSubmission_NotFound(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.Submissions()

	_, err := repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, repo.SaveGrading(ctx, GradingUpdate{TenantID: "school-1", SubmissionID: "missing"}), ErrNotFound)
	assert.ErrorIs(t, repo.AppendReview(ctx, "school-1", &Review{SubmissionID: "missing"}), ErrNotFound)
}

func TestGradedForStudent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	art := seedLesson(t, s, "art")
	repo := s.Submissions()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, grade := range []string{"Good", "Excellent", "Needs Improvement"} {
		sub := seedSubmission(t, s, art.ID, "student-1")
		require.NoError(t, repo.SaveGrading(ctx, GradingUpdate{
			TenantID:     "school-1",
			SubmissionID: sub.ID,
			Grade:        grade,
			GradedAt:     base.Add(time.Duration(2-i) * 24 * time.Hour),
		}))
	}
	seedSubmission(t, s, art.ID, "student-1")
	other := seedSubmission(t, s, art.ID, "student-2")
	require.NoError(t, repo.SaveGrading(ctx, GradingUpdate{TenantID: "school-1", SubmissionID: other.ID, Grade: "Good", GradedAt: base}))

	rows, err := repo.GradedForStudent(ctx, "school-1", "student-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Needs Improvement", rows[0].Grade, "oldest first")
	assert.Equal(t, "Good", rows[2].Grade)
	assert.Equal(t, "art", rows[0].Category)
	assert.Equal(t, "drawing_art", rows[0].AssignmentType)

	rows, err = repo.GradedForStudent(ctx, "school-1", "student-1", base.Add(12*time.Hour), base.Add(36*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Excellent", rows[0].Grade)
}

func TestSubmissions_ScopedToTenant(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	lesson := seedLesson(t, s, "art")
	sub := seedSubmission(t, s, lesson.ID, "student-1")
	repo := s.Submissions()

	gradedAt := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	assert.ErrorIs(t, repo.SaveGrading(ctx, GradingUpdate{TenantID: "school-2", SubmissionID: sub.ID, Grade: "Excellent", GradedAt: gradedAt}), ErrNotFound)
	require.NoError(t, repo.SaveGrading(ctx, GradingUpdate{TenantID: "school-1", SubmissionID: sub.ID, Grade: "Good", GradedAt: gradedAt}))

	assert.ErrorIs(t, repo.AppendReview(ctx, "school-2", &Review{SubmissionID: sub.ID, ReviewerID: "intruder"}), ErrNotFound)
	_, err := repo.Reviews(ctx, "school-2", sub.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	rows, err := repo.GradedForStudent(ctx, "school-2", "student-1", time.Time{}, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, rows)

	got, err := repo.Get(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusGraded, got.Status)
	assert.Equal(t, "Good", got.Grade)
	assert.Empty(t, got.ReviewedBy)

	reviews, err := repo.Reviews(ctx, "school-1", sub.ID)
	require.NoError(t, err)
	assert.Empty(t, reviews)
}

func TestLLMEvents(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	repo := s.EventRepo()

	events := []LLMRequestEventData{
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "lesson_generation", TenantID: "school-1", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "homework_grading", InputTokens: 80, OutputTokens: 120, LatencyMs: 500, Success: true},
		{Provider: "anthropic", Model: "claude-sonnet-4-20250514", Purpose: "homework_grading", LatencyMs: 100, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		require.NoError(t, repo.AppendLLMRequest(ctx, e))
	}

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "rate limited", all[0].ErrorMessage, "newest first")
	assert.False(t, all[0].Success)

	grading, err := repo.QueryLLMEvents(ctx, QueryOpts{Purpose: "homework_grading", Limit: 1})
	require.NoError(t, err)
	require.Len(t, grading, 1)

	got, err := repo.GetLLMEvent(ctx, all[2].ID)
	require.NoError(t, err)
	assert.Equal(t, "school-1", got.TenantID)
	assert.Equal(t, 400, got.OutputTokens)

	_, err = repo.GetLLMEvent(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, "homework_grading", byPurpose[0].Key)
	assert.Equal(t, 2, byPurpose[0].Calls)
	assert.Equal(t, 80, byPurpose[0].InputTokens)
	assert.Equal(t, int64(300), byPurpose[0].AvgLatencyMs)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 3, byModel[0].Calls)
	assert.Equal(t, 520, byModel[0].OutputTokens)
}
