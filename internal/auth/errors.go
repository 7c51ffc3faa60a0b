package auth

import "errors"

var (
	// ErrTokenMalformed indicates the token could not be decoded at all.
	ErrTokenMalformed = errors.New("auth: malformed token")
	// ErrTokenExpired indicates a well-formed token past its expiry.
	ErrTokenExpired = errors.New("auth: token expired")
	// ErrTokenInvalid indicates a signature mismatch or failed claims check.
	ErrTokenInvalid = errors.New("auth: invalid token")
)
