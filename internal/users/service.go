// Package users holds account records and the signup/login/reset flows
// around them.
package users

import (
	"context"
	"fmt"
	"strings"

	"leafcare.org/internal/auth"
)

// Service wires the credential store to the token service. All state it
// touches lives in the Store; a Service instance is safe for concurrent
// request handling.
type Service struct {
	store  Store
	tokens *auth.Tokens
}

func NewService(store Store, tokens *auth.Tokens) *Service {
	return &Service{store: store, tokens: tokens}
}

// Signup registers a new account and returns its id. The plaintext
// password is hashed before anything is persisted.
func (s *Service) Signup(ctx context.Context, username, email, password string) (string, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(strings.ToLower(email))
	if username == "" || email == "" || password == "" {
		return "", ErrInvalidInput
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user := &User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := s.store.Create(ctx, user); err != nil {
		return "", err
	}
	return user.ID, nil
}

// Login authenticates an email/password pair and issues a bearer token.
// An unknown email returns ErrNotFound; a wrong password returns
// ErrBadCredentials. The HTTP layer maps these to distinct statuses.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return "", ErrInvalidInput
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	if err := auth.VerifyPassword(user.PasswordHash, password); err != nil {
		return "", ErrBadCredentials
	}
	return s.tokens.IssueAuthToken(user.ID)
}

// ForgotPassword issues a short-lived reset token for the account
// registered under email. The token changes no server-side state; it is
// a capability the caller presents to a future reset endpoint.
func (s *Service) ForgotPassword(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return "", ErrInvalidInput
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueResetToken(user.ID)
}
