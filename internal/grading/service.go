// Package grading grades preschool homework against static rubrics,
// records teacher reviews and builds progress reports.
package grading

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abhisek/tinysteps/internal/ai"
	"github.com/abhisek/tinysteps/internal/logger"
	"github.com/abhisek/tinysteps/internal/store"
	"github.com/abhisek/tinysteps/internal/usage"
)

// ErrInvalidGrade is returned when a review modifies the grade to a value
// outside the four grades.
var ErrInvalidGrade = errors.New("invalid grade")

var errNoStore = errors.New("submission store not configured")

// Grader orchestrates homework grading. It is safe for concurrent use.
type Grader struct {
	client      *ai.Client
	submissions store.SubmissionRepo
	log         *logger.Logger
	now         func() time.Time
	concurrency int
}

// NewGrader creates a grader. submissions may be nil when results are
// never persisted.
func NewGrader(client *ai.Client, submissions store.SubmissionRepo, opts ...Option) *Grader {
	g := &Grader{
		client:      client,
		submissions: submissions,
		log:         logger.Nop(),
		now:         time.Now,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Criteria returns the rubric of an assignment type or a NotFound error.
func (g *Grader) Criteria(assignmentType string) (*Criteria, error) {
	c, ok := LookupCriteria(assignmentType)
	if !ok {
		return nil, ai.NotFound("Grading criteria not found for assignment type")
	}
	return &c, nil
}

// GradeSubmission grades one submission. The rubric is resolved before any
// completion call.
func (g *Grader) GradeSubmission(ctx context.Context, sub Submission) (*GradedSubmission, error) {
	c, err := g.Criteria(sub.AssignmentType)
	if err != nil {
		return nil, err
	}
	if !g.client.Available() {
		return nil, ai.ErrUnavailable
	}

	ageMatch := c.AgeExpectations.Matches(sub.StudentAge)
	grading, err := ai.Generate[HomeworkGrading](ctx, g.client, ai.Call{
		UserID:   sub.UserID,
		TenantID: sub.TenantID,
		Feature:  usage.FeatureHomeworkGrading,
		Prompt:   buildGradingPrompt(sub, *c, ageMatch),
		Schema:   HomeworkGradingSchema,
	})
	if err != nil {
		g.log.Warn("grading failed", "submission_id", sub.ID, "assignment_type", sub.AssignmentType, "error", err)
		return nil, err
	}

	graded := &GradedSubmission{
		TenantID:     sub.TenantID,
		SubmissionID: sub.ID,
		Grading:      *grading,
		GradedAt:     g.now().UTC(),
		AIConfidence: Confidence(*grading, ageMatch),
		AgeMatch:     ageMatch,
	}
	g.log.Debug("submission graded", "submission_id", sub.ID, "grade", grading.Grade, "confidence", graded.AIConfidence)
	return graded, nil
}

// BatchGrade grades submissions with at most the configured number of
// calls in flight. Result i belongs to subs[i]; failures stay per item.
func (g *Grader) BatchGrade(ctx context.Context, subs []Submission) []BatchResult {
	results := make([]BatchResult, len(subs))

	var eg errgroup.Group
	eg.SetLimit(g.concurrency)
	for i, sub := range subs {
		eg.Go(func() error {
			graded, err := g.GradeSubmission(ctx, sub)
			results[i] = BatchResult{SubmissionID: sub.ID, Graded: graded, Err: err}
			return nil
		})
	}
	_ = eg.Wait()

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	g.log.Info("batch graded", "submissions", len(subs), "failed", failed)
	return results
}

// SaveGrading writes an AI grading onto its submission row. A submission
// of another tenant is reported as not found.
func (g *Grader) SaveGrading(ctx context.Context, graded GradedSubmission) error {
	if g.submissions == nil {
		return errNoStore
	}
	data, err := json.Marshal(graded.Grading)
	if err != nil {
		return fmt.Errorf("encode grading: %w", err)
	}
	err = g.submissions.SaveGrading(ctx, store.GradingUpdate{
		TenantID:        graded.TenantID,
		SubmissionID:    graded.SubmissionID,
		Grade:           graded.Grading.Grade,
		TeacherFeedback: graded.Grading.Feedback,
		GradingJSON:     string(data),
		AIConfidence:    graded.AIConfidence,
		GradedAt:        graded.GradedAt,
	})
	if errors.Is(err, store.ErrNotFound) {
		return ai.NotFound("Submission not found")
	}
	if err != nil {
		return fmt.Errorf("save grading: %w", err)
	}
	return nil
}

// ReviewSubmission appends a new review version and marks the submission
// reviewed. The AI grading columns are left as they were.
func (g *Grader) ReviewSubmission(ctx context.Context, req ReviewRequest) (*TeacherReview, error) {
	if g.submissions == nil {
		return nil, errNoStore
	}

	rev := &store.Review{
		SubmissionID:    req.SubmissionID,
		ReviewerID:      req.ReviewerID,
		Approved:        req.Approved,
		AdditionalNotes: req.AdditionalNotes,
	}
	if req.Modifications != nil {
		if !ValidGrade(req.Modifications.Grade) {
			return nil, fmt.Errorf("%w: %q", ErrInvalidGrade, req.Modifications.Grade)
		}
		data, err := json.Marshal(req.Modifications)
		if err != nil {
			return nil, fmt.Errorf("encode modifications: %w", err)
		}
		rev.Modifications = string(data)
	}

	err := g.submissions.AppendReview(ctx, req.TenantID, rev)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ai.NotFound("Submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	g.log.Info("submission reviewed", "submission_id", req.SubmissionID, "version", rev.Version, "approved", req.Approved)
	return toTeacherReview(*rev)
}

// Reviews returns every review version of the tenant's submission, oldest
// first.
func (g *Grader) Reviews(ctx context.Context, tenantID, submissionID string) ([]TeacherReview, error) {
	if g.submissions == nil {
		return nil, errNoStore
	}
	rows, err := g.submissions.Reviews(ctx, tenantID, submissionID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ai.NotFound("Submission not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load reviews: %w", err)
	}
	out := make([]TeacherReview, 0, len(rows))
	for _, row := range rows {
		rev, err := toTeacherReview(row)
		if err != nil {
			return nil, err
		}
		out = append(out, *rev)
	}
	return out, nil
}

func toTeacherReview(r store.Review) (*TeacherReview, error) {
	out := &TeacherReview{
		ID:              r.ID,
		SubmissionID:    r.SubmissionID,
		ReviewerID:      r.ReviewerID,
		Approved:        r.Approved,
		AdditionalNotes: r.AdditionalNotes,
		Version:         r.Version,
		CreatedAt:       r.CreatedAt,
	}
	if r.Modifications != "" {
		var m HomeworkGrading
		if err := json.Unmarshal([]byte(r.Modifications), &m); err != nil {
			return nil, fmt.Errorf("decode review %s modifications: %w", r.ID, err)
		}
		out.Modifications = &m
	}
	return out, nil
}

// GenerateProgressReport summarizes a student's graded submissions in the
// requested range and asks the model for a narrative on top. Without a
// configured provider, or with no graded work, Analysis is nil.
func (g *Grader) GenerateProgressReport(ctx context.Context, req ProgressRequest) (*ProgressReport, error) {
	if g.submissions == nil {
		return nil, errNoStore
	}
	rows, err := g.submissions.GradedForStudent(ctx, req.TenantID, req.StudentID, req.From, req.To)
	if err != nil {
		return nil, fmt.Errorf("load graded submissions: %w", err)
	}

	report := &ProgressReport{
		StudentID:        req.StudentID,
		From:             req.From,
		To:               req.To,
		Subjects:         summarize(rows),
		TotalSubmissions: len(rows),
	}
	if report.TotalSubmissions == 0 || !g.client.Available() {
		return report, nil
	}

	analysis, err := ai.Generate[ProgressAnalysis](ctx, g.client, ai.Call{
		UserID:   req.UserID,
		TenantID: req.TenantID,
		Feature:  usage.FeatureProgressAnalysis,
		Prompt:   buildProgressPrompt(report, req.StudentName),
		Schema:   ProgressAnalysisSchema,
	})
	if err != nil {
		g.log.Warn("progress analysis failed", "student_id", req.StudentID, "error", err)
		return nil, err
	}
	report.Analysis = analysis
	return report, nil
}
