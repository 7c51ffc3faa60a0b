package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"leafcare.org/internal/auth"
)

func newTestService(t *testing.T) (*Service, *auth.Tokens) {
	t.Helper()
	tokens, err := auth.NewTokens("auth-secret", "reset-secret", time.Hour, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return NewService(NewMemory(), tokens), tokens
}

func TestSignupAndLogin(t *testing.T) {
	svc, tokens := newTestService(t)
	ctx := context.Background()

	id, err := svc.Signup(ctx, "alice", "alice@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if id == "" {
		t.Fatal("expected user id")
	}

	token, err := svc.Login(ctx, "alice@x.com", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := tokens.VerifyAuthToken(token)
	if err != nil {
		t.Fatalf("VerifyAuthToken: %v", err)
	}
	if claims.UserID() != id {
		t.Fatalf("token subject %s, want %s", claims.UserID(), id)
	}
}

func TestSignupRejectsDuplicateUsername(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice", "alice@x.com", "pw1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}
	// Same username, different remaining fields: still rejected, and no
	// second record appears under the new email.
	if _, err := svc.Signup(ctx, "alice", "alice2@x.com", "pw2"); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice2@x.com", "pw2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("partial record created: %v", err)
	}
}

func TestSignupValidation(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	for _, tc := range []struct{ username, email, password string }{
		{"", "a@x.com", "pw"},
		{"a", "", "pw"},
		{"a", "a@x.com", ""},
	} {
		if _, err := svc.Signup(ctx, tc.username, tc.email, tc.password); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("signup(%q,%q,%q): expected ErrInvalidInput, got %v", tc.username, tc.email, tc.password, err)
		}
	}
}

func TestLoginDistinguishesUnknownUserFromWrongPassword(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	if _, err := svc.Signup(ctx, "alice", "alice@x.com", "pw1"); err != nil {
		t.Fatalf("Signup: %v", err)
	}

	if _, err := svc.Login(ctx, "ghost@x.com", "pw1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := svc.Login(ctx, "alice@x.com", "wrong"); !errors.Is(err, ErrBadCredentials) {
		t.Fatalf("expected ErrBadCredentials, got %v", err)
	}
}

func TestForgotPasswordIssuesResetToken(t *testing.T) {
	svc, tokens := newTestService(t)
	ctx := context.Background()

	id, err := svc.Signup(ctx, "alice", "alice@x.com", "pw1")
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}

	reset, err := svc.ForgotPassword(ctx, "alice@x.com")
	if err != nil {
		t.Fatalf("ForgotPassword: %v", err)
	}
	claims, err := tokens.VerifyResetToken(reset)
	if err != nil {
		t.Fatalf("VerifyResetToken: %v", err)
	}
	if claims.UserID() != id {
		t.Fatalf("reset subject %s, want %s", claims.UserID(), id)
	}
	// A reset token must never pass as an auth token.
	if _, err := tokens.VerifyAuthToken(reset); err == nil {
		t.Fatal("reset token accepted as auth token")
	}

	if _, err := svc.ForgotPassword(ctx, "ghost@x.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
