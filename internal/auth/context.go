package auth

import (
	"context"
	"strings"
)

type subjectContextKey struct{}

// ContextWithSubject stores the verified user identity in the context.
func ContextWithSubject(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, subjectContextKey{}, strings.TrimSpace(userID))
}

// SubjectFromContext extracts the authenticated user id from the context.
func SubjectFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(subjectContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
