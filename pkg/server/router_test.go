package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/lacrosselens/lacrosselens-engine/pkg/audit"
	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/config"
	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
	"github.com/lacrosselens/lacrosselens-engine/pkg/handlers"
)

type fakeScopeProvider struct {
	err      error
	acquired int
	released int
}

func (p *fakeScopeProvider) WithScope(ctx context.Context) (context.Context, func(), error) {
	if p.err != nil {
		return nil, nil, p.err
	}
	p.acquired++
	return database.SetScope(ctx, &database.Scope{}), func() { p.released++ }, nil
}

type rejectingAuth struct{}

func (rejectingAuth) ValidateRequest(*http.Request) (*auth.Claims, string, error) {
	return nil, "", errors.New("no credentials")
}

func (rejectingAuth) ValidateBearer(*http.Request) (*auth.Claims, string, error) {
	return nil, "", errors.New("no credentials")
}

func (rejectingAuth) StartSession(http.ResponseWriter, *http.Request, *auth.Claims) error { return nil }

func (rejectingAuth) EndSession(http.ResponseWriter, *http.Request) error { return nil }

type scopeProbe struct {
	sawScope bool
}

func (p *scopeProbe) RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware) {
	mux.HandleFunc("GET /api/probe", func(w http.ResponseWriter, r *http.Request) {
		_, p.sawScope = database.GetScope(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/guarded", authMiddleware.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
}

func newTestRouter(provider database.ScopeProvider, probe *scopeProbe, auditLogger *zap.Logger) http.Handler {
	cfg := &config.Config{Version: "test", Env: "local", BaseURL: "http://localhost:5000"}
	return newRouter(routerDeps{
		provider: provider,
		auditor:  audit.NewSecurityAuditor(auditLogger),
		logger:   zap.NewNop(),
		public: []publicRoutes{
			handlers.NewHealthHandler(cfg, nil, nil, zap.NewNop()),
			handlers.NewWellKnownHandler(cfg, zap.NewNop()),
		},
		protected:      []protectedRoutes{probe},
		authMiddleware: auth.NewMiddleware(rejectingAuth{}, zap.NewNop()),
	})
}

func serve(h http.Handler, method, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func TestRouter_PublicRoutesSkipScope(t *testing.T) {
	provider := &fakeScopeProvider{}
	router := newTestRouter(provider, &scopeProbe{}, zap.NewNop())

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/ping").Code)
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/.well-known/oauth-protected-resource").Code)
	assert.Zero(t, provider.acquired)
}

func TestRouter_APIRoutesGetScope(t *testing.T) {
	provider := &fakeScopeProvider{}
	probe := &scopeProbe{}
	router := newTestRouter(provider, probe, zap.NewNop())

	rec := serve(router, http.MethodGet, "/api/probe")

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.True(t, probe.sawScope)
	assert.Equal(t, 1, provider.acquired)
	assert.Equal(t, 1, provider.released)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_ScopeFailureIs500(t *testing.T) {
	provider := &fakeScopeProvider{err: errors.New("pool exhausted")}
	router := newTestRouter(provider, &scopeProbe{}, zap.NewNop())

	rec := serve(router, http.MethodGet, "/api/probe")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "database_error")
}

func TestRouter_AuditsAuthFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	router := newTestRouter(&fakeScopeProvider{}, &scopeProbe{}, zap.New(core))

	rec := serve(router, http.MethodGet, "/api/guarded")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "Authentication failed", logs.All()[0].Message)
	assert.Equal(t, "/api/guarded", logs.All()[0].ContextMap()["path"])
}

func TestRouter_UnknownAPIPathIs404(t *testing.T) {
	router := newTestRouter(&fakeScopeProvider{}, &scopeProbe{}, zap.NewNop())
	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/api/nope").Code)
}
