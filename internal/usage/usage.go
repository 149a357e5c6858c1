// Package usage records AI consumption per tenant and feature and keeps
// the append-only list in a single storage key.
package usage

import "time"

// Feature names an AI-backed operation.
type Feature string

const (
	FeatureLessonGeneration Feature = "lesson_generation"
	FeatureHomeworkGrading  Feature = "homework_grading"
	FeatureSTEMActivity     Feature = "stem_activity"
	FeatureProgressAnalysis Feature = "progress_analysis"
)

// Features lists every known feature.
var Features = []Feature{
	FeatureLessonGeneration,
	FeatureHomeworkGrading,
	FeatureSTEMActivity,
	FeatureProgressAnalysis,
}

// Record is one successful completion call. Records are never mutated.
type Record struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	TenantID   string    `json:"tenantId"`
	Feature    Feature   `json:"feature"`
	TokensUsed int       `json:"tokensUsed"`
	Timestamp  time.Time `json:"timestamp"`
}

// Stats aggregates a tenant's records.
type Stats struct {
	TotalQueries     int             `json:"total_queries"`
	TotalTokens      int             `json:"total_tokens"`
	FeatureBreakdown map[Feature]int `json:"feature_breakdown"`
	MonthlyUsage     int             `json:"monthly_usage"`
}
