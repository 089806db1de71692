package logger

import (
	"context"
	"log/slog"
)

type contextKey string

// Context keys for business attributes carried across auth operations.
const (
	UserIDKey    contextKey = "user_id"
	RequestIDKey contextKey = "request_id"
	EmailKey     contextKey = "email"
	FlowKey      contextKey = "flow"
	StageKey     contextKey = "stage"
)

// GlobalContext is the process-wide ContextLogger set up by Init.
var GlobalContext *ContextLogger

// WithUserID attaches a user ID to the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithRequestID attaches a request correlation ID to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// WithEmail attaches the email an auth flow concerns to the context.
func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, EmailKey, email)
}

// WithFlow attaches the auth flow name (signup, signin, federated, bootstrap).
func WithFlow(ctx context.Context, flow string) context.Context {
	return context.WithValue(ctx, FlowKey, flow)
}

// WithStage attaches the stage within a flow (request, verify, persist).
func WithStage(ctx context.Context, stage string) context.Context {
	return context.WithValue(ctx, StageKey, stage)
}

// ContextLogger enriches log records with business attributes stored in the
// context.
type ContextLogger struct {
	logger *slog.Logger
}

func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithContext returns a logger carrying every business attribute present in
// ctx.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger

	if v, ok := ctx.Value(UserIDKey).(string); ok && v != "" {
		logger = logger.With("user_id", v)
	}
	if v, ok := ctx.Value(RequestIDKey).(string); ok && v != "" {
		logger = logger.With("request_id", v)
	}
	if v, ok := ctx.Value(EmailKey).(string); ok && v != "" {
		logger = logger.With("auth.email", v)
	}
	if v, ok := ctx.Value(FlowKey).(string); ok && v != "" {
		logger = logger.With("auth.flow", v)
	}
	if v, ok := ctx.Value(StageKey).(string); ok && v != "" {
		logger = logger.With("auth.stage", v)
	}

	return logger
}

// LogDuration emits a timing record for an operation.
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, ms int64) {
	cl.WithContext(ctx).Info("operation completed",
		"operation", operation,
		"duration_ms", ms)
}

// LogError emits a failure record for an operation.
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).Error("operation failed",
		"operation", operation,
		"error", err.Error())
}
