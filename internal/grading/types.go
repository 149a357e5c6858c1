package grading

import "time"

// Grades a submission can receive.
const (
	GradeExcellent        = "Excellent"
	GradeGood             = "Good"
	GradeNeedsImprovement = "Needs Improvement"
	GradeIncomplete       = "Incomplete"
)

// ValidGrade reports whether g is one of the four grades.
func ValidGrade(g string) bool {
	switch g {
	case GradeExcellent, GradeGood, GradeNeedsImprovement, GradeIncomplete:
		return true
	}
	return false
}

// HomeworkGrading is the model's assessment of one submission.
type HomeworkGrading struct {
	Grade               string   `json:"grade"`
	Feedback            string   `json:"feedback"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areasForImprovement"`
	NextSteps           []string `json:"nextSteps"`
	ParentNotes         string   `json:"parentNotes"`
}

// Submission is the input to grading.
type Submission struct {
	ID              string `json:"id"`
	UserID          string `json:"-"`
	TenantID        string `json:"-"`
	StudentID       string `json:"student_id"`
	StudentName     string `json:"student_name,omitempty"`
	StudentAge      int    `json:"student_age"`
	AssignmentType  string `json:"assignment_type"`
	AssignmentTitle string `json:"assignment_title,omitempty"`
	Instructions    string `json:"instructions,omitempty"`
	Content         string `json:"content"`
}

// GradedSubmission is an AI grading with its confidence score.
// AIConfidence is in [0.30, 0.95].
type GradedSubmission struct {
	TenantID     string          `json:"-"`
	SubmissionID string          `json:"submission_id"`
	Grading      HomeworkGrading `json:"grading"`
	GradedAt     time.Time       `json:"graded_at"`
	AIConfidence float64         `json:"ai_confidence"`
	AgeMatch     bool            `json:"age_match"`
	Reviews      []TeacherReview `json:"reviews,omitempty"`
}

// TeacherReview overlays a teacher's decision on an AI grading. The AI
// fields are never changed by a review.
type TeacherReview struct {
	ID              string           `json:"id"`
	SubmissionID    string           `json:"submission_id"`
	ReviewerID      string           `json:"reviewer_id"`
	Approved        bool             `json:"approved"`
	Modifications   *HomeworkGrading `json:"modifications,omitempty"`
	AdditionalNotes string           `json:"additional_notes,omitempty"`
	Version         int              `json:"version"`
	CreatedAt       time.Time        `json:"created_at"`
}

// ReviewRequest records a teacher review.
type ReviewRequest struct {
	TenantID        string           `json:"-"`
	SubmissionID    string           `json:"-"`
	ReviewerID      string           `json:"-"`
	Approved        bool             `json:"approved"`
	Modifications   *HomeworkGrading `json:"modifications,omitempty"`
	AdditionalNotes string           `json:"additional_notes,omitempty"`
}

// BatchResult is the outcome for one submission of a batch. Exactly one of
// Graded and Err is set.
type BatchResult struct {
	SubmissionID string
	Graded       *GradedSubmission
	Err          error
}

// Criteria is the static rubric of an assignment type.
type Criteria struct {
	AssignmentType  string          `json:"assignment_type"`
	Rubric          []RubricItem    `json:"rubric"`
	AgeExpectations AgeExpectations `json:"age_expectations"`
}

// RubricItem is one weighted criterion. Weight is 1..5.
type RubricItem struct {
	Criterion   string `json:"criterion"`
	Description string `json:"description"`
	Weight      int    `json:"weight"`
}

// AgeExpectations is the age range a rubric is written for.
type AgeExpectations struct {
	MinAge             int    `json:"min_age"`
	MaxAge             int    `json:"max_age"`
	DevelopmentalNotes string `json:"developmental_notes"`
}

// Matches reports whether age is inside the range, inclusive.
func (a AgeExpectations) Matches(age int) bool {
	return age >= a.MinAge && age <= a.MaxAge
}

// Trend describes the direction of a subject's recent grades.
type Trend string

const (
	TrendImproving      Trend = "improving"
	TrendStable         Trend = "stable"
	TrendNeedsAttention Trend = "needs_attention"
)

// ProgressRequest selects the submissions of a progress report. Zero From
// or To leaves that side of the range open.
type ProgressRequest struct {
	UserID      string
	TenantID    string
	StudentID   string
	StudentName string
	From        time.Time
	To          time.Time
}

// SubjectProgress summarizes one category. Grades are oldest first.
type SubjectProgress struct {
	Category     string   `json:"category"`
	Count        int      `json:"count"`
	AverageScore float64  `json:"average_score"`
	Trend        Trend    `json:"trend"`
	Grades       []string `json:"grades"`
}

// ProgressAnalysis is the model's narrative over a progress report.
type ProgressAnalysis struct {
	OverallSummary  string   `json:"overallSummary"`
	Strengths       []string `json:"strengths"`
	AreasForGrowth  []string `json:"areasForGrowth"`
	Recommendations []string `json:"recommendations"`
	ParentSummary   string   `json:"parentSummary"`
}

// ProgressReport is the numeric summary of a student's graded work plus an
// optional narrative analysis.
type ProgressReport struct {
	StudentID        string                     `json:"student_id"`
	From             time.Time                  `json:"from"`
	To               time.Time                  `json:"to"`
	Subjects         map[string]SubjectProgress `json:"subjects"`
	TotalSubmissions int                        `json:"total_submissions"`
	Analysis         *ProgressAnalysis          `json:"analysis"`
}
