package services

import "context"

type contextKey string

const (
	runIDKey contextKey = "run_id"
	ruleKey  contextKey = "rule"
)

// WithRunID annotates context with the identifier of the current clean run.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRule annotates context with the rule currently being evaluated.
func WithRule(ctx context.Context, rule string) context.Context {
	if rule == "" {
		return ctx
	}
	return context.WithValue(ctx, ruleKey, rule)
}

// RuleFromContext returns the rule name if present.
func RuleFromContext(ctx context.Context) (string, bool) {
	v := ctx.Value(ruleKey)
	if str, ok := v.(string); ok && str != "" {
		return str, true
	}
	return "", false
}
