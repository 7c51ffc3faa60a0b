package users

import (
	"errors"
	"time"
)

// User is a registered account. PasswordHash never leaves this package's
// consumers; the JSON mapping exists for internal tooling only and
// deliberately omits the hash.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

var (
	ErrNotFound       = errors.New("users: not found")
	ErrDuplicate      = errors.New("users: already exists")
	ErrInvalidInput   = errors.New("users: invalid input")
	ErrBadCredentials = errors.New("users: bad credentials")
)
