package httpapi

import (
	"errors"
	"net/http"

	"leafcare.org/internal/obs"
	"leafcare.org/internal/users"
)

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

func (a *API) handleSignup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req signupRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	id, err := a.users.Signup(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "username, email and password are required")
		case errors.Is(err, users.ErrDuplicate):
			writeError(w, r, http.StatusBadRequest, "username already taken")
		default:
			writeError(w, r, http.StatusInternalServerError, "signup failed")
		}
		return
	}

	obs.Event(r.Context(), "auth.signup", map[string]any{"user_id": id, "username": req.Username})
	writeJSON(w, http.StatusCreated, map[string]any{"message": "User created successfully"})
}

func (a *API) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "email and password are required")
		case errors.Is(err, users.ErrNotFound):
			// The split between "unknown user" and "wrong password"
			// leaks account existence. Clients depend on the 404, so
			// collapsing both into 403 needs a client change first.
			writeError(w, r, http.StatusNotFound, "user not found")
		case errors.Is(err, users.ErrBadCredentials):
			writeError(w, r, http.StatusForbidden, "invalid credentials")
		default:
			writeError(w, r, http.StatusInternalServerError, "login failed")
		}
		return
	}

	obs.Event(r.Context(), "auth.login", map[string]any{"email": req.Email})
	writeJSON(w, http.StatusOK, map[string]any{"token": token})
}

func (a *API) handleForgotPassword(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, r, http.MethodPost)
		return
	}

	var req forgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	token, err := a.users.ForgotPassword(r.Context(), req.Email)
	if err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidInput):
			writeError(w, r, http.StatusBadRequest, "email is required")
		case errors.Is(err, users.ErrNotFound):
			writeError(w, r, http.StatusNotFound, "user not found")
		default:
			writeError(w, r, http.StatusInternalServerError, "reset token generation failed")
		}
		return
	}

	obs.Event(r.Context(), "auth.reset_token.issued", map[string]any{"email": req.Email})
	// No mail delivery is wired, so the token goes back in the
	// response body and the caller handles distribution.
	writeJSON(w, http.StatusOK, map[string]any{
		"message":    "Reset token generated",
		"resetToken": token,
	})
}
