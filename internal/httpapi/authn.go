package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"leafcare.org/internal/auth"
)

const (
	authHeader = "Authorization"
	bearer     = "Bearer "
)

// Routes behind the bearer-token guard. Everything else passes through.
var protectedPaths = []string{
	"/api/upload",
	"/diagnosis-history",
}

// withAuth verifies the bearer token on protected routes and attaches
// the verified subject to the request context. It fails closed: a
// protected handler never runs on an unverified request. A missing or
// unparseable header is 401; a token that fails verification is 403.
func (a *API) withAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions || !isProtectedPath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token, err := extractBearerToken(r.Header.Get(authHeader))
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, r, http.StatusUnauthorized, err.Error())
			return
		}

		claims, err := a.tokens.VerifyAuthToken(token)
		if err != nil {
			w.Header().Set("WWW-Authenticate", "Bearer")
			writeError(w, r, http.StatusForbidden, "invalid or expired token")
			return
		}

		ctx := auth.ContextWithSubject(r.Context(), claims.UserID())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractBearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", errors.New("missing bearer token")
	}
	if !strings.HasPrefix(strings.ToLower(header), strings.ToLower(bearer)) {
		return "", errors.New("invalid authorization scheme")
	}
	token := strings.TrimSpace(header[len(bearer):])
	if token == "" {
		return "", errors.New("missing bearer token")
	}
	return token, nil
}

func isProtectedPath(path string) bool {
	for _, p := range protectedPaths {
		if path == p {
			return true
		}
	}
	return false
}
