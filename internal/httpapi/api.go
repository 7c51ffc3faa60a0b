// Package httpapi is the HTTP surface of leafcare-api: public auth
// routes, the bearer-guarded diagnosis routes, and operational
// endpoints. All component dependencies arrive through New; handlers
// keep no state of their own.
package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"leafcare.org/internal/auth"
	"leafcare.org/internal/diagnosis"
	"leafcare.org/internal/obs"
	"leafcare.org/internal/users"
)

// ReadyProbe reports whether the service can take traffic (DB ping when
// a database is configured).
type ReadyProbe struct {
	DB *sql.DB
}

func (rp ReadyProbe) Check(ctx context.Context) error {
	if rp.DB == nil {
		return nil
	}
	return rp.DB.PingContext(ctx)
}

// API is the HTTP layer.
type API struct {
	mux        *http.ServeMux
	readyProbe ReadyProbe
	version    string

	users    *users.Service
	tokens   *auth.Tokens
	pipeline *diagnosis.Pipeline
	history  diagnosis.Store
	uploads  diagnosis.BlobStore

	maxBodyBytes int64
	rateBurst    int
	ratePerSec   int
}

// New wires the handlers. tokens guards the protected routes; uploads
// backs the public upload endpoint.
func New(rp ReadyProbe, version string, userSvc *users.Service, tokens *auth.Tokens, pipeline *diagnosis.Pipeline, history diagnosis.Store, uploads diagnosis.BlobStore) *API {
	a := &API{
		mux:          http.NewServeMux(),
		readyProbe:   rp,
		version:      version,
		users:        userSvc,
		tokens:       tokens,
		pipeline:     pipeline,
		history:      history,
		uploads:      uploads,
		maxBodyBytes: 16 << 20, // multipart image uploads
		rateBurst:    20,
		ratePerSec:   10,
	}

	a.mux.HandleFunc("/signup", a.handleSignup)
	a.mux.HandleFunc("/login", a.handleLogin)
	a.mux.HandleFunc("/forgot-password", a.handleForgotPassword)
	a.mux.HandleFunc("/upload", a.handleUpload)
	a.mux.HandleFunc("/api/upload", a.handleDiagnose)
	a.mux.HandleFunc("/diagnosis-history", a.handleHistory)

	a.mux.HandleFunc("/healthz", a.handleHealthz)
	a.mux.HandleFunc("/readyz", a.handleReady)
	a.mux.Handle("/metrics", obs.Handler())

	a.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	return a
}

// Handler returns the full middleware stack. The auth guard sits
// directly in front of the mux so no protected handler runs before
// token verification completes.
func (a *API) Handler() http.Handler {
	var h http.Handler = a.mux
	h = a.withAuth(h)
	h = RateLimit(h, a.rateBurst, a.ratePerSec)
	h = MaxBodyBytes(h, a.maxBodyBytes)
	h = CORS(h)
	h = SecurityHeaders(h)
	h = Logging(h)
	h = RequestID(h)
	return obs.Instrument(h)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": "leafcare-api",
		"version": a.version,
	})
}

func (a *API) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()
	if err := a.readyProbe.Check(ctx); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}
