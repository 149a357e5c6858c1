package lessons

// LessonContent is the model-generated body of a lesson plan.
type LessonContent struct {
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Content             string     `json:"content"`
	Activities          []Activity `json:"activities"`
	AssessmentQuestions []string   `json:"assessmentQuestions"`
	HomeExtension       []string   `json:"homeExtension"`
}

// Activity is one step of a lesson. EstimatedTime is in minutes.
type Activity struct {
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Instructions  string   `json:"instructions"`
	Materials     []string `json:"materials"`
	EstimatedTime int      `json:"estimatedTime"`
}

// Template is a static lesson blueprint.
type Template struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Subjects        []string `json:"subjects"`
	AgeGroup        string   `json:"age_group"`
	DurationMinutes int      `json:"duration_minutes"`
	ActivityTypes   []string `json:"activity_types"`
	Materials       []string `json:"materials"`
}

// GeneratedLesson is generated content merged with the parameters it was
// generated from. Template is nil for custom lessons.
type GeneratedLesson struct {
	Template   *Template     `json:"template,omitempty"`
	Content    LessonContent `json:"content"`
	Objectives []string      `json:"objectives"`
	AgeGroup   string        `json:"age_group"`
	Subjects   []string      `json:"subjects"`
	Duration   int           `json:"duration_minutes"`
}

// TemplateRequest asks for a lesson built from a catalog template.
type TemplateRequest struct {
	UserID           string   `json:"-"`
	TenantID         string   `json:"-"`
	TemplateID       string   `json:"template_id"`
	CustomObjectives []string `json:"custom_objectives,omitempty"`
	Notes            string   `json:"notes,omitempty"`
}

// CustomRequest asks for a lesson without a template.
type CustomRequest struct {
	UserID          string   `json:"-"`
	TenantID        string   `json:"-"`
	Topic           string   `json:"topic"`
	Subjects        []string `json:"subjects"`
	AgeGroup        string   `json:"age_group"`
	DurationMinutes int      `json:"duration_minutes"`
	Difficulty      string   `json:"difficulty"`
	Objectives      []string `json:"objectives,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// SaveRequest persists a generated lesson.
type SaveRequest struct {
	TenantID   string          `json:"-"`
	TeacherID  string          `json:"-"`
	CategoryID string          `json:"category_id,omitempty"`
	Lesson     GeneratedLesson `json:"lesson"`
}
