package stem

// Activity is the model-generated STEM activity.
type Activity struct {
	Title              string   `json:"title"`
	Description        string   `json:"description"`
	Instructions       []string `json:"instructions"`
	ScientificConcepts []string `json:"scientificConcepts"`
	Extensions         []string `json:"extensions"`
	SafetyNotes        []string `json:"safetyNotes"`
}

// AgeRange is inclusive on both ends.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether age is inside the range.
func (r AgeRange) Contains(age int) bool {
	return age >= r.Min && age <= r.Max
}

// Concept is a static catalog entry for a science idea.
type Concept struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	AgeRange    AgeRange `json:"age_range"`
	Subject     string   `json:"subject"`
	Complexity  string   `json:"complexity"`
	Keywords    []string `json:"keywords"`
}

// KitItem is one item of a material kit.
type KitItem struct {
	Name         string   `json:"name"`
	Quantity     int      `json:"quantity"`
	Optional     bool     `json:"optional"`
	Alternatives []string `json:"alternatives,omitempty"`
}

// MaterialKit is a static bundle of items for hands-on activities.
type MaterialKit struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Items       []KitItem   `json:"items"`
	CostTier    string      `json:"cost_tier"`
	SafetyLevel Supervision `json:"safety_level"`
}

// Supervision levels, ordered from least to most adult involvement.
type Supervision string

const (
	SupervisionIndependent   Supervision = "independent"
	SupervisionGuided        Supervision = "guided"
	SupervisionAdultRequired Supervision = "adult_required"
)

func (s Supervision) rank() int {
	switch s {
	case SupervisionGuided:
		return 1
	case SupervisionAdultRequired:
		return 2
	}
	return 0
}

// escalate returns the stricter of s and to.
func (s Supervision) escalate(to Supervision) Supervision {
	if to.rank() > s.rank() {
		return to
	}
	return s
}

// Safety is the deterministic safety assessment of a material
// list for a child's age.
type Safety struct {
	Guidelines       []string    `json:"guidelines"`
	Risks            []string    `json:"risks"`
	SupervisionLevel Supervision `json:"supervision_level"`
}

// ActivityRequest asks for a STEM activity. With no ConceptID a concept is
// chosen for Age, preferring concepts that match the kit.
type ActivityRequest struct {
	UserID          string   `json:"-"`
	TenantID        string   `json:"-"`
	ConceptID       string   `json:"concept_id,omitempty"`
	KitID           string   `json:"kit_id,omitempty"`
	Age             int      `json:"age"`
	Materials       []string `json:"materials,omitempty"`
	LearningGoals   []string `json:"learning_goals,omitempty"`
	DurationMinutes int      `json:"duration_minutes,omitempty"`
	GroupSize       int      `json:"group_size,omitempty"`
	Notes           string   `json:"notes,omitempty"`
}

// GeneratedActivity is an activity with the catalog entries and safety
// assessment it was built from.
type GeneratedActivity struct {
	Activity      Activity     `json:"activity"`
	Concept       Concept      `json:"concept"`
	Kit           *MaterialKit `json:"kit,omitempty"`
	LearningGoals []string     `json:"learning_goals"`
	Materials     []string     `json:"materials"`
	Safety        Safety       `json:"safety"`
}
