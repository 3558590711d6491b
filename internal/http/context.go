package http

import "context"

type contextKey string

const (
	allocationIDContextKey contextKey = "allocation_id"
	projectIDContextKey    contextKey = "project_id"
	activityIDContextKey   contextKey = "activity_id"
	milestoneIDContextKey  contextKey = "milestone_id"
)

// ContextWithAllocationID injects the allocation identifier resolved from the request path.
func ContextWithAllocationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, allocationIDContextKey, id)
}

// AllocationIDFromContext extracts an allocation identifier previously associated with the context.
func AllocationIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(allocationIDContextKey).(string)
	return id, ok
}

// ContextWithProjectID injects the project identifier resolved from the request path.
func ContextWithProjectID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, projectIDContextKey, id)
}

// ProjectIDFromContext extracts a project identifier previously associated with the context.
func ProjectIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(projectIDContextKey).(string)
	return id, ok
}

// ContextWithActivityID injects the activity identifier resolved from the request path.
func ContextWithActivityID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, activityIDContextKey, id)
}

// ActivityIDFromContext extracts an activity identifier previously associated with the context.
func ActivityIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(activityIDContextKey).(string)
	return id, ok
}

// ContextWithMilestoneID injects the milestone identifier resolved from the request path.
func ContextWithMilestoneID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, milestoneIDContextKey, id)
}

// MilestoneIDFromContext extracts a milestone identifier previously associated with the context.
func MilestoneIDFromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(milestoneIDContextKey).(string)
	return id, ok
}
