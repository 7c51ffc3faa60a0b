package obs

import (
	"context"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"leafcare.org/internal/auth"
)

var (
	loggerOnce sync.Once
	logger     *logrus.Logger
)

// Logger returns the shared structured logger used across the service.
func Logger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stdout)
		logger.SetFormatter(&logrus.JSONFormatter{})
	})
	return logger
}

// SetLevel adjusts the shared logger level; unknown names fall back to info.
func SetLevel(level string) {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	Logger().SetLevel(parsed)
}

// LogRequest emits a structured log line with common HTTP fields.
func LogRequest(fields map[string]any) {
	Logger().WithFields(logrus.Fields(fields)).Info("request_complete")
}

// Event records a security-relevant action (signup, login, diagnosis
// submission) enriched with the request id and the authenticated subject.
func Event(ctx context.Context, event string, fields map[string]any) {
	entry := Logger().WithFields(logrus.Fields{
		"type":  "audit",
		"event": event,
		"ts":    time.Now().UTC().Format(time.RFC3339Nano),
	})
	if rid := RequestIDFromContext(ctx); rid != "" {
		entry = entry.WithField("request_id", rid)
	}
	if subject, ok := auth.SubjectFromContext(ctx); ok {
		entry = entry.WithField("user_id", subject)
	}
	if len(fields) > 0 {
		entry = entry.WithFields(logrus.Fields(fields))
	}
	entry.Info(event)
}

type ctxKey string

const requestIDKey ctxKey = "obs_request_id"

// ContextWithRequestID attaches the request identifier for log correlation.
func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	requestID = strings.TrimSpace(requestID)
	if requestID == "" {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFromContext extracts the request id if one was attached.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
