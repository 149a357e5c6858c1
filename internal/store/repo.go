package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by single-row lookups that match nothing.
var ErrNotFound = errors.New("not found")

// Submission statuses.
const (
	StatusSubmitted = "submitted"
	StatusGraded    = "graded"
	StatusReviewed  = "reviewed"
)

// QueryOpts configures event queries with filtering and pagination.
type QueryOpts struct {
	Limit   int       // max results (0 = unlimited)
	Purpose string    // exact match when set
	From    time.Time // created_at >= From
	To      time.Time // created_at <= To
}

// Category is a lesson subject category (art, literacy, math, ...).
type Category struct {
	ID        string
	TenantID  string
	Name      string
	CreatedAt time.Time
}

// LessonRecord is a persisted lesson with its ordered activities.
type LessonRecord struct {
	ID                  string           `json:"id"`
	TenantID            string           `json:"tenant_id"`
	TeacherID           string           `json:"teacher_id"`
	CategoryID          string           `json:"category_id,omitempty"`
	TemplateID          string           `json:"template_id,omitempty"`
	Title               string           `json:"title"`
	Description         string           `json:"description"`
	Content             string           `json:"content"`
	AgeGroup            string           `json:"age_group"`
	DurationMinutes     int              `json:"duration_minutes"`
	Objectives          []string         `json:"objectives"`
	AssessmentQuestions []string         `json:"assessment_questions"`
	HomeExtension       []string         `json:"home_extension"`
	AIGenerated         bool             `json:"ai_generated"`
	CreatedAt           time.Time        `json:"created_at"`
	Activities          []ActivityRecord `json:"activities"`
}

// ActivityRecord is one child row of a lesson.
type ActivityRecord struct {
	ID               string   `json:"id"`
	LessonID         string   `json:"lesson_id"`
	Position         int      `json:"position"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Instructions     string   `json:"instructions"`
	Materials        []string `json:"materials"`
	EstimatedMinutes int      `json:"estimated_minutes"`
}

// Assignment links homework to a lesson and names its rubric type.
type Assignment struct {
	ID             string
	TenantID       string
	LessonID       string
	Title          string
	AssignmentType string
	CreatedAt      time.Time
}

// Submission is a homework_submissions row.
type Submission struct {
	ID              string
	TenantID        string
	AssignmentID    string
	StudentID       string
	StudentAge      int
	Content         string
	Status          string
	Grade           string
	TeacherFeedback string
	GradingJSON     string
	AIConfidence    float64
	GradedAt        *time.Time
	ReviewedBy      string
	SubmittedAt     time.Time
}

// GradingUpdate carries the AI grading columns written by SaveGrading.
type GradingUpdate struct {
	TenantID        string
	SubmissionID    string
	Grade           string
	TeacherFeedback string
	GradingJSON     string
	AIConfidence    float64
	GradedAt        time.Time
}

// Review is one version of a teacher's review of a submission.
type Review struct {
	ID              string
	SubmissionID    string
	ReviewerID      string
	Version         int
	Approved        bool
	Modifications   string // JSON, empty when the teacher changed nothing
	AdditionalNotes string
	CreatedAt       time.Time
}

// GradedRow is a graded submission joined to its assignment, lesson and
// category, as used for progress reports.
type GradedRow struct {
	SubmissionID   string
	AssignmentType string
	Category       string
	Grade          string
	GradedAt       time.Time
}

// CategoryRepo manages lesson categories.
type CategoryRepo interface {
	Create(ctx context.Context, c *Category) error
}

// LessonRepo manages lessons and their activities.
type LessonRepo interface {
	// CreateWithActivities writes the lesson and all of its activities in
	// one transaction. IDs and timestamps are assigned when empty.
	CreateWithActivities(ctx context.Context, l *LessonRecord) error

	// Get returns the lesson with its activities, or ErrNotFound.
	Get(ctx context.Context, id string) (*LessonRecord, error)
}

// AssignmentRepo manages assignments.
type AssignmentRepo interface {
	Create(ctx context.Context, a *Assignment) error
}

// SubmissionRepo manages homework submissions and their reviews.
type SubmissionRepo interface {
	Create(ctx context.Context, sub *Submission) error

	// Get returns the submission, or ErrNotFound.
	Get(ctx context.Context, id string) (*Submission, error)

	// SaveGrading marks the submission graded and stores the AI result.
	// A submission of another tenant is ErrNotFound.
	SaveGrading(ctx context.Context, u GradingUpdate) error

	// AppendReview stores a new review version and marks the submission
	// reviewed. The AI grading columns are left as they are. A submission
	// of another tenant is ErrNotFound.
	AppendReview(ctx context.Context, tenantID string, r *Review) error

	// Reviews returns all review versions, oldest first, or ErrNotFound
	// when the tenant has no such submission.
	Reviews(ctx context.Context, tenantID, submissionID string) ([]Review, error)

	// GradedForStudent returns the tenant's graded or reviewed submissions
	// of a student with graded_at in [from, to], oldest first. Zero bounds
	// are open.
	GradedForStudent(ctx context.Context, tenantID, studentID string, from, to time.Time) ([]GradedRow, error)
}

// LLMRequestEventData captures the data for a single LLM request event.
type LLMRequestEventData struct {
	Provider     string
	Model        string
	Purpose      string
	TenantID     string
	InputTokens  int
	OutputTokens int
	LatencyMs    int64
	Success      bool
	ErrorMessage string
	RequestBody  string
	ResponseBody string
}

// LLMRequestEventRecord is a stored LLM request event.
type LLMRequestEventRecord struct {
	ID        int64
	Timestamp time.Time
	LLMRequestEventData
}

// LLMUsage aggregates LLM events by one dimension.
type LLMUsage struct {
	Key          string // purpose or model
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// EventRepo provides append and query access to LLM request events.
type EventRepo interface {
	// AppendLLMRequest records an LLM API call event.
	AppendLLMRequest(ctx context.Context, data LLMRequestEventData) error

	// QueryLLMEvents returns events newest first.
	QueryLLMEvents(ctx context.Context, opts QueryOpts) ([]LLMRequestEventRecord, error)

	// GetLLMEvent returns one event, or ErrNotFound.
	GetLLMEvent(ctx context.Context, id int64) (*LLMRequestEventRecord, error)

	// LLMUsageByPurpose aggregates events per purpose.
	LLMUsageByPurpose(ctx context.Context) ([]LLMUsage, error)

	// LLMUsageByModel aggregates events per model.
	LLMUsageByModel(ctx context.Context) ([]LLMUsage, error)
}
