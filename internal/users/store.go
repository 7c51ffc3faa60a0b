package users

import "context"

// Store persists user records. No other component writes users directly.
type Store interface {
	// Create inserts a new user. A username collision returns
	// ErrDuplicate and leaves no partial record behind.
	Create(ctx context.Context, u *User) error
	// FindByEmail returns the user registered under email, or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*User, error)
}
