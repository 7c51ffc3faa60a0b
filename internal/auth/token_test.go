package auth

import (
	"context"
	"errors"
	"testing"
	"time"
)

func newTestTokens(t *testing.T, opts ...TokensOption) *Tokens {
	t.Helper()
	tk, err := NewTokens("auth-secret", "reset-secret", time.Hour, 15*time.Minute, opts...)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}
	return tk
}

func TestIssueAndVerifyAuthToken(t *testing.T) {
	tk := newTestTokens(t)

	token, err := tk.IssueAuthToken("user-42")
	if err != nil {
		t.Fatalf("IssueAuthToken: %v", err)
	}

	claims, err := tk.VerifyAuthToken(token)
	if err != nil {
		t.Fatalf("VerifyAuthToken: %v", err)
	}
	if claims.UserID() != "user-42" {
		t.Fatalf("unexpected subject: %s", claims.UserID())
	}
}

func TestAuthTokenExpires(t *testing.T) {
	now := time.Now()
	tk := newTestTokens(t, WithClock(func() time.Time { return now }))

	token, err := tk.IssueAuthToken("user-42")
	if err != nil {
		t.Fatalf("IssueAuthToken: %v", err)
	}

	now = now.Add(time.Hour + time.Minute)
	if _, err := tk.VerifyAuthToken(token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	tk := newTestTokens(t)

	authToken, err := tk.IssueAuthToken("user-1")
	if err != nil {
		t.Fatalf("IssueAuthToken: %v", err)
	}
	resetToken, err := tk.IssueResetToken("user-1")
	if err != nil {
		t.Fatalf("IssueResetToken: %v", err)
	}

	if _, err := tk.VerifyResetToken(authToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("auth token verified under reset secret: %v", err)
	}
	if _, err := tk.VerifyAuthToken(resetToken); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("reset token verified under auth secret: %v", err)
	}
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	tk := newTestTokens(t)
	other, err := NewTokens("other-secret", "other-reset", time.Hour, 15*time.Minute)
	if err != nil {
		t.Fatalf("NewTokens: %v", err)
	}

	token, err := other.IssueAuthToken("user-1")
	if err != nil {
		t.Fatalf("IssueAuthToken: %v", err)
	}
	if _, err := tk.VerifyAuthToken(token); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	tk := newTestTokens(t)

	for _, token := range []string{"", "not-a-jwt", "a.b", "a.b.c.d"} {
		if _, err := tk.VerifyAuthToken(token); !errors.Is(err, ErrTokenMalformed) {
			t.Fatalf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}

func TestNewTokensRejectsSharedSecret(t *testing.T) {
	if _, err := NewTokens("same", "same", time.Hour, time.Minute); err == nil {
		t.Fatal("expected error for identical secrets")
	}
	if _, err := NewTokens("", "reset", time.Hour, time.Minute); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("pw1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == "pw1" {
		t.Fatal("hash equals plaintext")
	}
	if err := VerifyPassword(hash, "pw1"); err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if err := VerifyPassword(hash, "pw2"); err == nil {
		t.Fatal("expected mismatch for wrong password")
	}
	if _, err := HashPassword(""); err == nil {
		t.Fatal("expected error for empty password")
	}
}

func TestContextSubjectHelpers(t *testing.T) {
	ctx := context.Background()
	if _, ok := SubjectFromContext(ctx); ok {
		t.Fatal("unexpected subject in empty context")
	}
	ctx = ContextWithSubject(ctx, "user-7")
	id, ok := SubjectFromContext(ctx)
	if !ok || id != "user-7" {
		t.Fatalf("unexpected subject: %s, ok=%v", id, ok)
	}
}
