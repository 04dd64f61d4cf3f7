package server

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/lacrosselens/lacrosselens-engine/pkg/audit"
	"github.com/lacrosselens/lacrosselens-engine/pkg/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/database"
	"github.com/lacrosselens/lacrosselens-engine/pkg/handlers"
	mcpauth "github.com/lacrosselens/lacrosselens-engine/pkg/mcp/auth"
	"github.com/lacrosselens/lacrosselens-engine/pkg/middleware"
)

// publicRoutes are served without a database scope or authentication.
type publicRoutes interface {
	RegisterRoutes(mux *http.ServeMux)
}

// protectedRoutes are served with a database scope and guard their own
// endpoints with the auth middleware.
type protectedRoutes interface {
	RegisterRoutes(mux *http.ServeMux, authMiddleware *auth.Middleware)
}

type routerDeps struct {
	provider       database.ScopeProvider
	auditor        *audit.SecurityAuditor
	logger         *zap.Logger
	public         []publicRoutes
	protected      []protectedRoutes
	authMiddleware *auth.Middleware
	mcp            *handlers.MCPHandler
	mcpAuth        *mcpauth.Middleware
}

// newRouter lays out the routes. Health and discovery endpoints must keep
// answering when the pool is exhausted, so only the API mux acquires a
// connection per request.
func newRouter(d routerDeps) http.Handler {
	api := http.NewServeMux()
	for _, h := range d.protected {
		h.RegisterRoutes(api, d.authMiddleware)
	}
	if d.mcp != nil {
		d.mcp.RegisterRoutes(api, d.mcpAuth)
	}

	root := http.NewServeMux()
	for _, h := range d.public {
		h.RegisterRoutes(root)
	}
	root.HandleFunc("/", database.WithScopeContext(d.provider, d.logger)(api.ServeHTTP))

	var handler http.Handler = root
	handler = middleware.SecurityAudit(d.auditor)(handler)
	handler = middleware.RequestLogger(d.logger)(handler)
	return handler
}
