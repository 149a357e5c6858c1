package llm

import "context"

type contextKey string

const (
	purposeKey contextKey = "llm_purpose"
	tenantKey  contextKey = "llm_tenant"
)

// WithPurpose attaches a purpose label (the feature name) to the context
// for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithTenant attaches the tenant (school) id so request events can be
// attributed per school.
func WithTenant(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, tenantKey, tenantID)
}

// TenantFrom extracts the tenant id from the context, or "".
func TenantFrom(ctx context.Context) string {
	if v, ok := ctx.Value(tenantKey).(string); ok {
		return v
	}
	return ""
}
